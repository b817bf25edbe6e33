package models

import "time"

// LeaderboardEntry хранит очки команды в рамках одного турнира.
// TeamID и TournamentID не проверяются на существование при записи.
type LeaderboardEntry struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	TournamentID string    `json:"tournament_id"`
	TeamName     string    `json:"team_name"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RankedEntry struct {
	Rank int `json:"rank"`
	LeaderboardEntry
}

// TournamentStandings: таблица одного турнира для публичной страницы.
type TournamentStandings struct {
	TournamentID   string        `json:"tournament_id"`
	TournamentName string        `json:"tournament_name"`
	Entries        []RankedEntry `json:"entries"`
}

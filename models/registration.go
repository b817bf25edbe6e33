package models

import "time"

type Registration struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	TournamentID string    `json:"tournament_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// MyTournament: турнир, в котором участвует пользователь, вместе с его командой.
type MyTournament struct {
	Tournament Tournament `json:"tournament"`
	Team       Team       `json:"team"`
}

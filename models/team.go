package models

import (
	"slices"
	"time"
)

type Team struct {
	ID           string    `json:"id"`
	TeamName     string    `json:"team_name"`
	CaptainID    string    `json:"captain_id"`
	TournamentID string    `json:"tournament_id"`
	PlayerIDs    []string  `json:"player_ids"`
	CreatedAt    time.Time `json:"created_at"`

	Players []PlayerProfile `json:"players,omitempty"`
}

func (t *Team) HasPlayer(userID string) bool {
	return slices.Contains(t.PlayerIDs, userID)
}

package models

import "time"

// Tournament представляет турнир.
type Tournament struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StartDateTime        time.Time `json:"start_date_time"`
	EndDateTime          time.Time `json:"end_date_time"`
	PrizePool            int64     `json:"prize_pool"` // в центах
	MaxTeamCount         *int      `json:"max_team_count,omitempty"`
	RegisteredTeamsCount int       `json:"registered_teams_count"`
	Image                *string   `json:"image,omitempty"`
	StreamingURL         *string   `json:"streaming_url,omitempty"`
	IsRegistrationOpen   bool      `json:"is_registration_open"`
	CreatedAt            time.Time `json:"created_at"`
}

// IsFull сообщает, достигнут ли лимит команд. Турнир без лимита никогда не заполнен.
func (t *Tournament) IsFull() bool {
	return t.MaxTeamCount != nil && t.RegisteredTeamsCount >= *t.MaxTeamCount
}

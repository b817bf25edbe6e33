package models

type DashboardStats struct {
	UsersTotal         int `json:"users_total"`
	TournamentsTotal   int `json:"tournaments_total"`
	OpenTournaments    int `json:"open_tournaments"`
	TeamsTotal         int `json:"teams_total"`
	RegistrationsTotal int `json:"registrations_total"`
	LeaderboardEntries int `json:"leaderboard_entries"`
	SponsorsTotal      int `json:"sponsors_total"`
	InquiriesTotal     int `json:"inquiries_total"`
}

// HomePage содержит данные для главной страницы.
type HomePage struct {
	Featured *Tournament        `json:"featured"`
	Results  []LeaderboardEntry `json:"results"`
	Sponsors []Sponsor          `json:"sponsors"`
}

package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentInvalidDateRange = errors.New("end date and time must be after start date and time")
	ErrInvalidPrizePool           = errors.New("prize pool must be a non-negative amount")
	ErrInvalidPoints              = errors.New("points must be a non-negative integer")
	ErrInvalidImage               = errors.New("uploaded file must be an image")
	ErrPasswordTooShort           = errors.New("password must be at least 8 characters")
	ErrRegistrationClosed         = errors.New("registration is closed")
	ErrUserAlreadyInTeam          = errors.New("user is already in a team")
	ErrEmailNotFound              = errors.New("email not found")

	// Ошибки конфликтов
	ErrTournamentFull       = errors.New("tournament registration is full")
	ErrRegistrationConflict = errors.New("team is already registered for this tournament")
	ErrUserEmailConflict    = errors.New("email address is already in use")

	// Ошибки аутентификации
	ErrInvalidResetToken = errors.New("invalid or expired token")

	// Ресурс не найден
	ErrUserNotFound             = errors.New("user not found")
	ErrTeamNotFound             = errors.New("team not found")
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrLeaderboardEntryNotFound = errors.New("leaderboard entry not found")
	ErrSponsorNotFound          = errors.New("sponsor not found")

	// Внешние сервисы
	ErrUploadFailed    = errors.New("failed to upload file")
	ErrEmailSendFailed = errors.New("failed to send email")
)

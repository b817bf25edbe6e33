package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
)

type CreateTeamInput struct {
	TournamentID string `json:"tournamentId" validate:"required"`
	TeamName     string `json:"teamName" validate:"required,max=100"`
}

type JoinTeamInput struct {
	TournamentID string `json:"tournamentId" validate:"required"`
	// TeamID необязателен: без него игрок попадает в первую команду турнира.
	TeamID string `json:"teamId,omitempty"`
}

type RegistrationService interface {
	CreateTeam(ctx context.Context, userID string, input CreateTeamInput) (*models.Team, error)
	JoinTeam(ctx context.Context, userID string, input JoinTeamInput) (*models.Team, error)
}

type registrationService struct {
	tx               repositories.Transactor
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.RegistrationRepository
	logger           *slog.Logger
}

func NewRegistrationService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.RegistrationRepository,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		tx:               tx,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// CreateTeam создаёт команду (создатель становится капитаном и первым игроком),
// регистрирует её на турнир и увеличивает счётчик команд. Все три записи
// выполняются в одной транзакции.
func (s *registrationService) CreateTeam(ctx context.Context, userID string, input CreateTeamInput) (*models.Team, error) {
	teamName := strings.TrimSpace(input.TeamName)
	if teamName == "" || input.TournamentID == "" {
		return nil, ErrValidationFailed
	}

	tournament, err := s.openTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.IsFull() {
		return nil, ErrTournamentFull
	}

	if err := s.ensureNotInTournament(ctx, tournament.ID, userID); err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:           uuid.NewString(),
		TeamName:     teamName,
		CaptainID:    userID,
		TournamentID: tournament.ID,
		PlayerIDs:    []string{userID},
	}
	registration := &models.Registration{
		ID:           uuid.NewString(),
		TeamID:       team.ID,
		TournamentID: tournament.ID,
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}
		if err := s.registrationRepo.Create(ctx, exec, registration); err != nil {
			return err
		}
		return s.tournamentRepo.IncrementRegisteredTeams(ctx, exec, tournament.ID)
	})
	if err != nil {
		mapped := mapRepoError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to register team: %w", err)
		}
		return nil, mapped
	}

	s.logger.InfoContext(ctx, "team registered",
		slog.String("tournament_id", tournament.ID),
		slog.String("team_id", team.ID),
		slog.String("captain_id", userID),
	)
	return team, nil
}

// JoinTeam добавляет игрока в команду турнира: в указанную или, если TeamID
// пуст, в самую раннюю.
func (s *registrationService) JoinTeam(ctx context.Context, userID string, input JoinTeamInput) (*models.Team, error) {
	if input.TournamentID == "" {
		return nil, ErrValidationFailed
	}

	tournament, err := s.openTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	if input.TeamID != "" {
		team, err = s.teamRepo.GetByID(ctx, input.TeamID)
		if err == nil && team.TournamentID != tournament.ID {
			err = repositories.ErrTeamNotFound
		}
	} else {
		team, err = s.teamRepo.FirstByTournament(ctx, tournament.ID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	if team.HasPlayer(userID) {
		return nil, ErrUserAlreadyInTeam
	}
	if err := s.ensureNotInTournament(ctx, tournament.ID, userID); err != nil {
		return nil, err
	}

	if err := s.teamRepo.AddPlayer(ctx, team.ID, userID); err != nil {
		mapped := mapRepoError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to join team: %w", err)
		}
		return nil, mapped
	}
	team.PlayerIDs = append(team.PlayerIDs, userID)

	s.logger.InfoContext(ctx, "player joined team",
		slog.String("tournament_id", tournament.ID),
		slog.String("team_id", team.ID),
		slog.String("user_id", userID),
	)
	return team, nil
}

func (s *registrationService) openTournament(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	if !tournament.IsRegistrationOpen {
		return nil, ErrRegistrationClosed
	}
	return tournament, nil
}

func (s *registrationService) ensureNotInTournament(ctx context.Context, tournamentID, userID string) error {
	_, err := s.teamRepo.FindByTournamentAndPlayer(ctx, tournamentID, userID)
	switch {
	case err == nil:
		return ErrUserAlreadyInTeam
	case errors.Is(err, repositories.ErrTeamNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check team membership: %w", err)
	}
}

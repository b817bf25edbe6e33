package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/storage"
	"golang.org/x/sync/errgroup"
)

// CreateTournamentInput содержит поля формы создания турнира. Даты и время приходят
// раздельно, как их отправляет админка.
type CreateTournamentInput struct {
	Name         string      `form:"name" validate:"required,min=2"`
	Description  string      `form:"description" validate:"required,min=10"`
	StartDate    string      `form:"startDate" validate:"required"`
	StartTime    string      `form:"startTime" validate:"required"`
	EndDate      string      `form:"endDate" validate:"required"`
	EndTime      string      `form:"endTime" validate:"required"`
	PrizePool    string      `form:"prizePool" validate:"required"`
	MaxPlayers   string      `form:"maxPlayers" validate:"omitempty,numeric"`
	StreamingURL string      `form:"streamingUrl" validate:"omitempty,url"`
	Image        *FileUpload `form:"-"`
}

type ListTournamentsParams struct {
	Upcoming bool
	Limit    int
	Offset   int
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, params ListTournamentsParams) ([]models.Tournament, error)
	ListAllTournaments(ctx context.Context) ([]models.Tournament, error)
	DeleteTournament(ctx context.Context, id string) error
	SetRegistrationOpen(ctx context.Context, id string, open bool) (*models.Tournament, error)
	ListTeamsWithPlayers(ctx context.Context, tournamentID string) ([]models.Team, error)
	HomePage(ctx context.Context) (*models.HomePage, error)
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	userRepo        repositories.UserRepository
	leaderboardRepo repositories.LeaderboardRepository
	sponsorRepo     repositories.SponsorRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
	now             func() time.Time
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	sponsorRepo repositories.SponsorRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		userRepo:        userRepo,
		leaderboardRepo: leaderboardRepo,
		sponsorRepo:     sponsorRepo,
		uploader:        uploader,
		logger:          logger,
		now:             time.Now,
	}
}

const tournamentImagesFolder = "tournaments"

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	start, err := CombineDateTime(input.StartDate, input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrValidationFailed, err)
	}
	end, err := CombineDateTime(input.EndDate, input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrValidationFailed, err)
	}
	if !end.After(start) {
		return nil, ErrTournamentInvalidDateRange
	}

	prizePool, err := ParsePrizePool(input.PrizePool)
	if err != nil {
		return nil, err
	}

	var maxTeams *int
	if raw := strings.TrimSpace(input.MaxPlayers); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil || v <= 0 {
			return nil, fmt.Errorf("%w: maxPlayers must be a positive integer", ErrValidationFailed)
		}
		maxTeams = &v
	}

	// Картинка загружается до вставки: без неё турнир не создаётся.
	image, err := uploadImage(ctx, s.uploader, tournamentImagesFolder, input.Image)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		StartDateTime:      start,
		EndDateTime:        end,
		PrizePool:          prizePool,
		MaxTeamCount:       maxTeams,
		Image:              optionalString(uploadLocation(image)),
		StreamingURL:       optionalString(input.StreamingURL),
		IsRegistrationOpen: true,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		discardUpload(ctx, s.uploader, s.logger, image)
		if errors.Is(err, repositories.ErrTournamentInvalidDates) {
			return nil, ErrTournamentInvalidDateRange
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created", slog.String("tournament_id", tournament.ID), slog.String("name", tournament.Name))
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, params ListTournamentsParams) ([]models.Tournament, error) {
	filter := repositories.ListTournamentsFilter{Limit: params.Limit, Offset: params.Offset}
	if params.Upcoming {
		now := s.now().UTC()
		filter.UpcomingAfter = &now
	}
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) ListAllTournaments(ctx context.Context) ([]models.Tournament, error) {
	return s.tournamentRepo.ListNewestFirst(ctx)
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id string) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "tournament deleted", slog.String("tournament_id", id))
	return nil
}

func (s *tournamentService) SetRegistrationOpen(ctx context.Context, id string, open bool) (*models.Tournament, error) {
	if err := s.tournamentRepo.SetRegistrationOpen(ctx, id, open); err != nil {
		return nil, mapRepoError(err)
	}
	return s.GetTournament(ctx, id)
}

// ListTeamsWithPlayers возвращает команды турнира с профилями игроков.
// Игроки, которых нет в таблице пользователей, пропускаются.
func (s *tournamentService) ListTeamsWithPlayers(ctx context.Context, tournamentID string) ([]models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, mapRepoError(err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, t := range teams {
		for _, id := range t.PlayerIDs {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	profiles, err := s.userRepo.ListProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.PlayerProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for i := range teams {
		teams[i].Players = make([]models.PlayerProfile, 0, len(teams[i].PlayerIDs))
		for _, id := range teams[i].PlayerIDs {
			if p, ok := byID[id]; ok {
				teams[i].Players = append(teams[i].Players, p)
			}
		}
	}
	return teams, nil
}

// HomePage собирает данные главной: ближайший по окончанию турнир, его
// таблицу и спонсоров. Турнир и спонсоры грузятся параллельно.
func (s *tournamentService) HomePage(ctx context.Context) (*models.HomePage, error) {
	page := &models.HomePage{
		Results:  []models.LeaderboardEntry{},
		Sponsors: []models.Sponsor{},
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		now := s.now().UTC()
		upcoming, err := s.tournamentRepo.List(gCtx, repositories.ListTournamentsFilter{UpcomingAfter: &now, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to load featured tournament: %w", err)
		}
		if len(upcoming) == 0 {
			return nil
		}
		page.Featured = &upcoming[0]

		results, err := s.leaderboardRepo.ListByTournament(gCtx, upcoming[0].ID)
		if err != nil {
			return fmt.Errorf("failed to load featured results: %w", err)
		}
		page.Results = results
		return nil
	})

	g.Go(func() error {
		sponsors, err := s.sponsorRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load sponsors: %w", err)
		}
		page.Sponsors = sponsors
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// CombineDateTime склеивает дату (YYYY-MM-DD или RFC3339) и время (HH:MM) в
// момент UTC. Из RFC3339 берётся только календарная дата.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		full, rfcErr := time.Parse(time.RFC3339, dateStr)
		if rfcErr != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", dateStr)
		}
		date = full
	}

	clock, err := time.Parse("15:04", timeStr)
	if err != nil {
		clock, err = time.Parse(time.TimeOnly, timeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q", timeStr)
		}
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// maxPrizePoolCents ограничивает призовой фонд сотней миллиардов долларов.
const maxPrizePoolCents = int64(100_000_000_000) * 100

// ParsePrizePool переводит денежную строку ("1500", "99.95", "$1,000") в центы.
// Принимается только десятичная запись; копейки сверх двух знаков округляются.
func ParsePrizePool(raw string) (int64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	whole, frac, _ := strings.Cut(cleaned, ".")
	if whole == "" || !isDigits(whole) || !isDigits(frac) {
		return 0, ErrInvalidPrizePool
	}

	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 12 {
		return 0, ErrInvalidPrizePool
	}
	dollars := int64(0)
	if whole != "" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, ErrInvalidPrizePool
		}
		dollars = v
	}

	frac += "000"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	if frac[2] >= '5' {
		cents++
	}

	total := dollars*100 + cents
	if total > maxPrizePoolCents {
		return 0, ErrInvalidPrizePool
	}
	return total, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

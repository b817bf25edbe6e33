package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/heistgames/tournament-hub/live"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
)

type LeaderboardInput struct {
	TeamID       string `json:"teamId" validate:"required"`
	TournamentID string `json:"tournamentId" validate:"required"`
	TeamName     string `json:"teamName" validate:"required"`
	// Указатель, чтобы отличать отсутствующее поле от нуля очков.
	Points *int `json:"points" validate:"required,min=0,max=2147483647"`
}

// MaxPoints совпадает с верхней границей колонки points INTEGER.
const MaxPoints = math.MaxInt32

type UpdateLeaderboardInput struct {
	ID string `json:"id" validate:"required"`
	LeaderboardInput
}

// RoomBroadcaster рассылает сообщение подписчикам комнаты.
type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type LeaderboardService interface {
	ListEntries(ctx context.Context) ([]models.LeaderboardEntry, error)
	CreateEntry(ctx context.Context, input LeaderboardInput) (*models.LeaderboardEntry, error)
	UpdateEntry(ctx context.Context, input UpdateLeaderboardInput) (*models.LeaderboardEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	Standings(ctx context.Context) ([]models.TournamentStandings, error)
	TournamentStandings(ctx context.Context, tournamentID string) (*models.TournamentStandings, error)
}

type leaderboardService struct {
	leaderboardRepo repositories.LeaderboardRepository
	tournamentRepo  repositories.TournamentRepository
	broadcaster     RoomBroadcaster
	logger          *slog.Logger
}

func NewLeaderboardService(
	leaderboardRepo repositories.LeaderboardRepository,
	tournamentRepo repositories.TournamentRepository,
	broadcaster RoomBroadcaster,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		tournamentRepo:  tournamentRepo,
		broadcaster:     broadcaster,
		logger:          logger,
	}
}

func (s *leaderboardService) ListEntries(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.leaderboardRepo.List(ctx)
}

func (s *leaderboardService) CreateEntry(ctx context.Context, input LeaderboardInput) (*models.LeaderboardEntry, error) {
	entry, err := entryFromInput(input)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()

	if err := s.leaderboardRepo.Create(ctx, entry); err != nil {
		return nil, mapRepoError(err)
	}

	s.notify(ctx, entry.TournamentID)
	return entry, nil
}

// UpdateEntry перезаписывает запись целиком. Если запись переехала в другой
// турнир, обновление получают обе комнаты.
func (s *leaderboardService) UpdateEntry(ctx context.Context, input UpdateLeaderboardInput) (*models.LeaderboardEntry, error) {
	entry, err := entryFromInput(input.LeaderboardInput)
	if err != nil {
		return nil, err
	}
	entry.ID = input.ID

	previous, err := s.leaderboardRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.leaderboardRepo.Update(ctx, entry); err != nil {
		return nil, mapRepoError(err)
	}

	s.notify(ctx, entry.TournamentID)
	if previous.TournamentID != entry.TournamentID {
		s.notify(ctx, previous.TournamentID)
	}
	return entry, nil
}

func (s *leaderboardService) DeleteEntry(ctx context.Context, id string) error {
	removed, err := s.leaderboardRepo.Delete(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	s.notify(ctx, removed.TournamentID)
	return nil
}

// Standings группирует таблицу по турнирам. Имя турнира берётся из базы,
// а для удалённых турниров подставляется сам ID.
func (s *leaderboardService) Standings(ctx context.Context) ([]models.TournamentStandings, error) {
	entries, err := s.leaderboardRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	groups := make(map[string]*models.TournamentStandings)
	for _, e := range entries {
		g, ok := groups[e.TournamentID]
		if !ok {
			g = &models.TournamentStandings{TournamentID: e.TournamentID, Entries: []models.RankedEntry{}}
			groups[e.TournamentID] = g
			ids = append(ids, e.TournamentID)
		}
		g.Entries = append(g.Entries, models.RankedEntry{Rank: len(g.Entries) + 1, LeaderboardEntry: e})
	}

	names, err := s.tournamentRepo.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]models.TournamentStandings, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		g.TournamentName = tournamentDisplayName(names, id)
		result = append(result, *g)
	}
	slices.SortStableFunc(result, func(a, b models.TournamentStandings) int {
		return cmp.Compare(strings.ToLower(a.TournamentName), strings.ToLower(b.TournamentName))
	})
	return result, nil
}

func (s *leaderboardService) TournamentStandings(ctx context.Context, tournamentID string) (*models.TournamentStandings, error) {
	entries, err := s.leaderboardRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	names, err := s.tournamentRepo.NamesByIDs(ctx, []string{tournamentID})
	if err != nil {
		return nil, err
	}
	return rankStandings(tournamentID, tournamentDisplayName(names, tournamentID), entries), nil
}

func (s *leaderboardService) notify(ctx context.Context, tournamentID string) {
	if s.broadcaster == nil {
		return
	}
	standings, err := s.TournamentStandings(ctx, tournamentID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to build standings for broadcast",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	room := live.TournamentRoom(tournamentID)
	s.broadcaster.BroadcastToRoom(room, live.Message{
		Type:    live.MessageLeaderboardUpdated,
		Payload: standings,
		RoomID:  room,
	})
}

func entryFromInput(input LeaderboardInput) (*models.LeaderboardEntry, error) {
	if input.Points == nil || *input.Points < 0 || *input.Points > MaxPoints {
		return nil, ErrInvalidPoints
	}
	entry := &models.LeaderboardEntry{
		TeamID:       strings.TrimSpace(input.TeamID),
		TournamentID: strings.TrimSpace(input.TournamentID),
		TeamName:     strings.TrimSpace(input.TeamName),
		Points:       *input.Points,
	}
	if entry.TeamID == "" || entry.TournamentID == "" || entry.TeamName == "" {
		return nil, fmt.Errorf("%w: teamId, tournamentId and teamName are required", ErrValidationFailed)
	}
	return entry, nil
}

func rankStandings(tournamentID, name string, entries []models.LeaderboardEntry) *models.TournamentStandings {
	ranked := make([]models.RankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = models.RankedEntry{Rank: i + 1, LeaderboardEntry: e}
	}
	return &models.TournamentStandings{TournamentID: tournamentID, TournamentName: name, Entries: ranked}
}

func tournamentDisplayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

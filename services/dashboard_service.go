package services

import (
	"context"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardService struct {
	userRepo         repositories.UserRepository
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.RegistrationRepository
	leaderboardRepo  repositories.LeaderboardRepository
	sponsorRepo      repositories.SponsorRepository
	inquiryRepo      repositories.InquiryRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.RegistrationRepository,
	leaderboardRepo repositories.LeaderboardRepository,
	sponsorRepo repositories.SponsorRepository,
	inquiryRepo repositories.InquiryRepository,
) DashboardService {
	return &dashboardService{
		userRepo:         userRepo,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
		leaderboardRepo:  leaderboardRepo,
		sponsorRepo:      sponsorRepo,
		inquiryRepo:      inquiryRepo,
	}
}

// Stats собирает счётчики для админки параллельно; первая ошибка отменяет остальные запросы.
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	g, gCtx := errgroup.WithContext(ctx)

	counters := []struct {
		name  string
		dst   *int
		count func(context.Context) (int, error)
	}{
		{"users", &stats.UsersTotal, s.userRepo.Count},
		{"tournaments", &stats.TournamentsTotal, func(ctx context.Context) (int, error) { return s.tournamentRepo.Count(ctx, false) }},
		{"open tournaments", &stats.OpenTournaments, func(ctx context.Context) (int, error) { return s.tournamentRepo.Count(ctx, true) }},
		{"teams", &stats.TeamsTotal, s.teamRepo.Count},
		{"registrations", &stats.RegistrationsTotal, s.registrationRepo.Count},
		{"leaderboard entries", &stats.LeaderboardEntries, s.leaderboardRepo.Count},
		{"sponsors", &stats.SponsorsTotal, s.sponsorRepo.Count},
		{"inquiries", &stats.InquiriesTotal, s.inquiryRepo.Count},
	}

	for _, c := range counters {
		g.Go(func() error {
			n, err := c.count(gCtx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", c.name, err)
			}
			*c.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

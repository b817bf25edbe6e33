package services

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clock выдаёт монотонно растущие метки времени, чтобы порядок вставки был детерминированным.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeTournamentRepo struct {
	mu    sync.Mutex
	clock *clock
	items []*models.Tournament
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !t.EndDateTime.After(t.StartDateTime) {
		return repositories.ErrTournamentInvalidDates
	}
	t.CreatedAt = r.clock.tick()
	cp := *t
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeTournamentRepo) find(id string) *models.Tournament {
	for _, t := range r.items {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(id)
	if t == nil {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, f repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.items {
		if f.UpcomingAfter != nil && !t.EndDateTime.After(*f.UpcomingAfter) {
			continue
		}
		out = append(out, *t)
	}
	if f.UpcomingAfter != nil {
		slices.SortStableFunc(out, func(a, b models.Tournament) int { return a.EndDateTime.Compare(b.EndDateTime) })
	} else {
		slices.SortStableFunc(out, func(a, b models.Tournament) int { return b.StartDateTime.Compare(a.StartDateTime) })
	}
	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeTournamentRepo) ListNewestFirst(ctx context.Context) ([]models.Tournament, error) {
	out, _ := r.List(ctx, repositories.ListTournamentsFilter{})
	slices.SortStableFunc(out, func(a, b models.Tournament) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *fakeTournamentRepo) NamesByIDs(_ context.Context, ids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make(map[string]string)
	for _, id := range ids {
		if t := r.find(id); t != nil {
			names[id] = t.Name
		}
	}
	return names, nil
}

func (r *fakeTournamentRepo) SetRegistrationOpen(_ context.Context, id string, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(id)
	if t == nil {
		return repositories.ErrTournamentNotFound
	}
	t.IsRegistrationOpen = open
	return nil
}

func (r *fakeTournamentRepo) IncrementRegisteredTeams(_ context.Context, _ repositories.SQLExecutor, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.find(id)
	if t == nil || t.IsFull() {
		return repositories.ErrTournamentFull
	}
	t.RegisteredTeamsCount++
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.items {
		if t.ID == id {
			r.items = slices.Delete(r.items, i, i+1)
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) Count(_ context.Context, openOnly bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.items {
		if !openOnly || t.IsRegistrationOpen {
			n++
		}
	}
	return n, nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	clock *clock
	items []*models.Team
}

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team.CreatedAt = r.clock.tick()
	cp := *team
	cp.PlayerIDs = slices.Clone(team.PlayerIDs)
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeTeamRepo) copyOf(t *models.Team) *models.Team {
	cp := *t
	cp.PlayerIDs = slices.Clone(t.PlayerIDs)
	return &cp
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.ID == id {
			return r.copyOf(t), nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) FirstByTournament(_ context.Context, tournamentID string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.TournamentID == tournamentID {
			return r.copyOf(t), nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Team, 0)
	for _, t := range r.items {
		if t.TournamentID == tournamentID {
			out = append(out, *r.copyOf(t))
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) FindByTournamentAndPlayer(_ context.Context, tournamentID, userID string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.TournamentID == tournamentID && t.HasPlayer(userID) {
			return r.copyOf(t), nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) AddPlayer(_ context.Context, teamID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.ID == teamID {
			if t.HasPlayer(userID) {
				return repositories.ErrPlayerAlreadyInTeam
			}
			t.PlayerIDs = append(t.PlayerIDs, userID)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

type fakeRegistrationRepo struct {
	mu          sync.Mutex
	items       []models.Registration
	teams       *fakeTeamRepo
	tournaments *fakeTournamentRepo
}

func (r *fakeRegistrationRepo) Create(_ context.Context, _ repositories.SQLExecutor, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.TeamID == reg.TeamID && existing.TournamentID == reg.TournamentID {
			return repositories.ErrRegistrationConflict
		}
	}
	r.items = append(r.items, *reg)
	return nil
}

func (r *fakeRegistrationRepo) ListForPlayer(ctx context.Context, userID string) ([]models.MyTournament, error) {
	r.mu.Lock()
	regs := slices.Clone(r.items)
	r.mu.Unlock()

	out := make([]models.MyTournament, 0)
	for _, reg := range regs {
		team, err := r.teams.GetByID(ctx, reg.TeamID)
		if err != nil || !team.HasPlayer(userID) {
			continue
		}
		t, err := r.tournaments.GetByID(ctx, reg.TournamentID)
		if err != nil {
			continue
		}
		out = append(out, models.MyTournament{Tournament: *t, Team: *team})
	}
	return out, nil
}

func (r *fakeRegistrationRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListProfilesByIDs(_ context.Context, ids []string) ([]models.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PlayerProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, models.PlayerProfile{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, AvatarURL: u.AvatarURL})
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.DiscordUsername, u.AvatarURL = user.FirstName, user.LastName, user.DiscordUsername, user.AvatarURL
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type fakeLeaderboardRepo struct {
	mu    sync.Mutex
	clock *clock
	items []*models.LeaderboardEntry
}

func (r *fakeLeaderboardRepo) Create(_ context.Context, e *models.LeaderboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.Points < 0 {
		return repositories.ErrLeaderboardInvalidPoints
	}
	e.CreatedAt = r.clock.tick()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeLeaderboardRepo) GetByID(_ context.Context, id string) (*models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrLeaderboardEntryNotFound
}

func (r *fakeLeaderboardRepo) Update(_ context.Context, e *models.LeaderboardEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.ID == e.ID {
			existing.TeamID, existing.TournamentID, existing.TeamName, existing.Points = e.TeamID, e.TournamentID, e.TeamName, e.Points
			e.CreatedAt, e.UpdatedAt = existing.CreatedAt, existing.UpdatedAt
			return nil
		}
	}
	return repositories.ErrLeaderboardEntryNotFound
}

func (r *fakeLeaderboardRepo) Delete(_ context.Context, id string) (*models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == id {
			r.items = slices.Delete(r.items, i, i+1)
			return e, nil
		}
	}
	return nil, repositories.ErrLeaderboardEntryNotFound
}

func (r *fakeLeaderboardRepo) sorted(filter func(*models.LeaderboardEntry) bool) []models.LeaderboardEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LeaderboardEntry, 0)
	for _, e := range r.items {
		if filter(e) {
			out = append(out, *e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.LeaderboardEntry) int { return cmp.Compare(b.Points, a.Points) })
	return out
}

func (r *fakeLeaderboardRepo) List(_ context.Context) ([]models.LeaderboardEntry, error) {
	return r.sorted(func(*models.LeaderboardEntry) bool { return true }), nil
}

func (r *fakeLeaderboardRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.LeaderboardEntry, error) {
	return r.sorted(func(e *models.LeaderboardEntry) bool { return e.TournamentID == tournamentID }), nil
}

func (r *fakeLeaderboardRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

type fakeSponsorRepo struct {
	mu        sync.Mutex
	items     []models.Sponsor
	createErr error
}

func (r *fakeSponsorRepo) Create(_ context.Context, s *models.Sponsor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, *s)
	return nil
}

func (r *fakeSponsorRepo) List(_ context.Context) ([]models.Sponsor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Sponsor{}, r.items...), nil
}

func (r *fakeSponsorRepo) Delete(_ context.Context, id string) (*models.Sponsor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.items {
		if s.ID == id {
			r.items = slices.Delete(r.items, i, i+1)
			return &s, nil
		}
	}
	return nil, repositories.ErrSponsorNotFound
}

func (r *fakeSponsorRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

type fakeInquiryRepo struct {
	mu    sync.Mutex
	items []models.SponsorInquiry
	err   error
}

func (r *fakeInquiryRepo) Create(_ context.Context, q *models.SponsorInquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *q)
	return nil
}

func (r *fakeInquiryRepo) List(_ context.Context) ([]models.SponsorInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.items)
	slices.Reverse(out)
	return out, nil
}

func (r *fakeInquiryRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.items), nil
}

type fakeUploader struct {
	mu      sync.Mutex
	keys    []string
	deleted []string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, key string, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string { return "https://cdn.test/" + key }

var errStorageDown = errors.New("storage is down")

type recordedBroadcast struct {
	room    string
	message interface{}
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []recordedBroadcast
}

func (b *fakeBroadcaster) BroadcastToRoom(room string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, recordedBroadcast{room: room, message: message})
}

func (b *fakeBroadcaster) rooms() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.sent))
	for i, s := range b.sent {
		out[i] = s.room
	}
	return out
}

type fakeMailer struct {
	sent []PasswordResetEmail
	err  error
}

func (m *fakeMailer) SendPasswordResetEmail(data PasswordResetEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}

// fixture собирает все фейки вместе.
type fixture struct {
	faker         *gofakeit.Faker
	clock         *clock
	tournaments   *fakeTournamentRepo
	teams         *fakeTeamRepo
	registrations *fakeRegistrationRepo
	users         *fakeUserRepo
	leaderboard   *fakeLeaderboardRepo
	sponsors      *fakeSponsorRepo
	inquiries     *fakeInquiryRepo
	uploader      *fakeUploader
	broadcaster   *fakeBroadcaster
}

func newFixture() *fixture {
	c := newClock()
	tournaments := &fakeTournamentRepo{clock: c}
	teams := &fakeTeamRepo{clock: c}
	return &fixture{
		faker:         gofakeit.New(42),
		clock:         c,
		tournaments:   tournaments,
		teams:         teams,
		registrations: &fakeRegistrationRepo{teams: teams, tournaments: tournaments},
		users:         newFakeUserRepo(),
		leaderboard:   &fakeLeaderboardRepo{clock: c},
		sponsors:      &fakeSponsorRepo{},
		inquiries:     &fakeInquiryRepo{},
		uploader:      &fakeUploader{},
		broadcaster:   &fakeBroadcaster{},
	}
}

func (f *fixture) tournament(mutate func(*models.Tournament)) *models.Tournament {
	start := time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC)
	t := &models.Tournament{
		ID:                 f.faker.UUID(),
		Name:               f.faker.Company() + " Cup",
		Description:        f.faker.Sentence(8),
		StartDateTime:      start,
		EndDateTime:        start.Add(4 * time.Hour),
		PrizePool:          int64(f.faker.Number(0, 100000)),
		IsRegistrationOpen: true,
	}
	if mutate != nil {
		mutate(t)
	}
	if err := f.tournaments.Create(context.Background(), t); err != nil {
		panic(err)
	}
	return t
}

func (f *fixture) user(role models.UserRole) *models.User {
	u := &models.User{
		ID:        f.faker.UUID(),
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
		Email:     f.faker.Email(),
		Role:      role,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) registrationService() RegistrationService {
	return NewRegistrationService(fakeTransactor{}, f.tournaments, f.teams, f.registrations, discardLogger())
}

func (f *fixture) tournamentService() *tournamentService {
	return NewTournamentService(f.tournaments, f.teams, f.users, f.leaderboard, f.sponsors, f.uploader, discardLogger()).(*tournamentService)
}

func (f *fixture) leaderboardService() LeaderboardService {
	return NewLeaderboardService(f.leaderboard, f.tournaments, f.broadcaster, discardLogger())
}

func (f *fixture) sponsorService() SponsorService {
	return NewSponsorService(f.sponsors, f.inquiries, f.uploader, discardLogger())
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heistgames/tournament-hub/middleware"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/services"
	"github.com/stretchr/testify/require"
)

// --- заглушки сервисов ---

type stubRegistrationService struct {
	createFn func(ctx context.Context, userID string, input services.CreateTeamInput) (*models.Team, error)
	joinFn   func(ctx context.Context, userID string, input services.JoinTeamInput) (*models.Team, error)
}

func (s *stubRegistrationService) CreateTeam(ctx context.Context, userID string, input services.CreateTeamInput) (*models.Team, error) {
	return s.createFn(ctx, userID, input)
}

func (s *stubRegistrationService) JoinTeam(ctx context.Context, userID string, input services.JoinTeamInput) (*models.Team, error) {
	return s.joinFn(ctx, userID, input)
}

type stubTournamentService struct {
	services.TournamentService // не реализованные методы паникуют

	createFn func(input services.CreateTournamentInput) (*models.Tournament, error)
	deleteFn func(id string) error
	listFn   func(params services.ListTournamentsParams) ([]models.Tournament, error)
	toggleFn func(id string, open bool) (*models.Tournament, error)
	getFn    func(id string) (*models.Tournament, error)
}

func (s *stubTournamentService) CreateTournament(_ context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	return s.createFn(input)
}

func (s *stubTournamentService) DeleteTournament(_ context.Context, id string) error {
	return s.deleteFn(id)
}

func (s *stubTournamentService) ListTournaments(_ context.Context, params services.ListTournamentsParams) ([]models.Tournament, error) {
	return s.listFn(params)
}

func (s *stubTournamentService) SetRegistrationOpen(_ context.Context, id string, open bool) (*models.Tournament, error) {
	return s.toggleFn(id, open)
}

func (s *stubTournamentService) GetTournament(_ context.Context, id string) (*models.Tournament, error) {
	return s.getFn(id)
}

// memLeaderboardService хранит записи в памяти и ведёт себя как настоящий сервис
// в части кодов ошибок и порядка.
type memLeaderboardService struct {
	mu      sync.Mutex
	seq     int
	entries map[string]models.LeaderboardEntry
}

func newMemLeaderboardService() *memLeaderboardService {
	return &memLeaderboardService{entries: map[string]models.LeaderboardEntry{}}
}

func (s *memLeaderboardService) ListEntries(context.Context) ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LeaderboardEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memLeaderboardService) CreateEntry(_ context.Context, input services.LeaderboardInput) (*models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ts := time.Date(2024, 1, 1, 0, 0, s.seq, 0, time.UTC)
	e := models.LeaderboardEntry{
		ID:           fmt.Sprintf("entry-%d", s.seq),
		TeamID:       input.TeamID,
		TournamentID: input.TournamentID,
		TeamName:     input.TeamName,
		Points:       *input.Points,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	s.entries[e.ID] = e
	return &e, nil
}

func (s *memLeaderboardService) UpdateEntry(_ context.Context, input services.UpdateLeaderboardInput) (*models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[input.ID]
	if !ok {
		return nil, services.ErrLeaderboardEntryNotFound
	}
	e.TeamID = input.TeamID
	e.TournamentID = input.TournamentID
	e.TeamName = input.TeamName
	e.Points = *input.Points
	s.entries[e.ID] = e
	return &e, nil
}

func (s *memLeaderboardService) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return services.ErrLeaderboardEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *memLeaderboardService) Standings(ctx context.Context) ([]models.TournamentStandings, error) {
	entries, _ := s.ListEntries(ctx)
	groups := map[string][]models.RankedEntry{}
	var order []string
	for _, e := range entries {
		if _, ok := groups[e.TournamentID]; !ok {
			order = append(order, e.TournamentID)
		}
		groups[e.TournamentID] = append(groups[e.TournamentID], models.RankedEntry{Rank: len(groups[e.TournamentID]) + 1, LeaderboardEntry: e})
	}
	out := make([]models.TournamentStandings, 0, len(order))
	for _, id := range order {
		out = append(out, models.TournamentStandings{TournamentID: id, TournamentName: id, Entries: groups[id]})
	}
	return out, nil
}

func (s *memLeaderboardService) TournamentStandings(ctx context.Context, tournamentID string) (*models.TournamentStandings, error) {
	all, _ := s.Standings(ctx)
	for _, st := range all {
		if st.TournamentID == tournamentID {
			return &st, nil
		}
	}
	return &models.TournamentStandings{TournamentID: tournamentID, TournamentName: tournamentID}, nil
}

type stubSponsorService struct {
	services.SponsorService

	createFn func(input services.CreateSponsorInput) (*models.Sponsor, error)
	deleteFn func(id string) (*models.Sponsor, error)
	inquired []services.SponsorInquiryInput
}

func (s *stubSponsorService) CreateSponsor(_ context.Context, input services.CreateSponsorInput) (*models.Sponsor, error) {
	return s.createFn(input)
}

func (s *stubSponsorService) DeleteSponsor(_ context.Context, id string) (*models.Sponsor, error) {
	return s.deleteFn(id)
}

func (s *stubSponsorService) SubmitInquiry(_ context.Context, input services.SponsorInquiryInput) (*models.SponsorInquiry, error) {
	s.inquired = append(s.inquired, input)
	return &models.SponsorInquiry{ID: "inq-1", Name: input.Name, Email: input.Email}, nil
}

type stubAuthService struct {
	services.AuthService

	requestErr error
	resetErr   error
	resetCalls int
}

func (s *stubAuthService) RequestPasswordReset(context.Context, string) error {
	return s.requestErr
}

func (s *stubAuthService) ResetPassword(context.Context, string, string) error {
	s.resetCalls++
	return s.resetErr
}

type stubProfileService struct {
	services.ProfileService

	updated *services.UpdateProfileInput
}

func (s *stubProfileService) UpdateProfile(_ context.Context, userID string, input services.UpdateProfileInput) (*models.User, error) {
	s.updated = &input
	return &models.User{ID: userID, FirstName: input.FirstName, LastName: input.LastName}, nil
}

// --- помощники запросов ---

var testPlayer = middleware.Session{ID: "user-1", Email: "player@example.com", Role: models.RoleUser}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(r *http.Request, session middleware.Session) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), session))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type formFileSpec struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFileSpec) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

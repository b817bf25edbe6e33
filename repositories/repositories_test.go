package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/heistgames/tournament-hub/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var tournamentCols = []string{
	"id", "name", "description", "start_date_time", "end_date_time", "prize_pool", "max_team_count",
	"registered_teams_count", "image", "streaming_url", "is_registration_open", "created_at",
}

func TestIncrementRegisteredTeams(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"slot available", 1, nil},
		{"limit reached", 0, ErrTournamentFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresTournamentRepository(db)

			mock.ExpectExec(`UPDATE tournaments\s+SET registered_teams_count = registered_teams_count \+ 1`).
				WithArgs("t-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.IncrementRegisteredTeams(context.Background(), nil, "t-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTournamentGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)

	mock.ExpectQuery(`FROM tournaments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(tournamentCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentListUpcoming(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`AND end_date_time > \$1 ORDER BY end_date_time ASC, created_at ASC LIMIT \$2`).
		WithArgs(now, 5).
		WillReturnRows(sqlmock.NewRows(tournamentCols).
			AddRow("t-1", "Heist Cup", "", now.Add(time.Hour), now.Add(2*time.Hour), int64(50000), nil, 0, nil, nil, true, now).
			AddRow("t-2", "Night Run", "", now.Add(time.Hour), now.Add(3*time.Hour), int64(0), int64(8), 8, "https://cdn/x.png", nil, false, now))

	list, err := repo.List(context.Background(), ListTournamentsFilter{UpcomingAfter: &now, Limit: 5})
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Nil(t, list[0].MaxTeamCount)
	assert.False(t, list[0].IsFull())
	require.NotNil(t, list[1].MaxTeamCount)
	assert.Equal(t, 8, *list[1].MaxTeamCount)
	assert.True(t, list[1].IsFull())
	require.NotNil(t, list[1].Image)
	assert.Equal(t, "https://cdn/x.png", *list[1].Image)
}

func TestTournamentCreateRejectsInvertedDates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTournamentRepository(db)

	mock.ExpectQuery(`INSERT INTO tournaments`).
		WillReturnError(&pq.Error{Code: pqCheckViolation, Constraint: "tournaments_dates_check"})

	err := repo.Create(context.Background(), &models.Tournament{ID: "t-1", Name: "Bad dates"})
	assert.ErrorIs(t, err, ErrTournamentInvalidDates)
}

func TestTeamAddPlayer(t *testing.T) {
	const addQuery = `UPDATE teams\s+SET player_ids = array_append\(player_ids, \$2\)`
	teamCols := []string{"id", "team_name", "captain_id", "tournament_id", "player_ids", "created_at"}

	t.Run("added", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectExec(addQuery).WithArgs("team-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AddPlayer(context.Background(), "team-1", "u-2"))
	})

	t.Run("already in team", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectExec(addQuery).WithArgs("team-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM teams WHERE id = \$1`).
			WithArgs("team-1").
			WillReturnRows(sqlmock.NewRows(teamCols).AddRow("team-1", "Crew", "u-1", "t-1", "{u-1}", time.Now()))

		err := repo.AddPlayer(context.Background(), "team-1", "u-1")
		assert.ErrorIs(t, err, ErrPlayerAlreadyInTeam)
	})

	t.Run("team missing", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresTeamRepository(db)

		mock.ExpectExec(addQuery).WithArgs("ghost", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`FROM teams WHERE id = \$1`).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(teamCols))

		err := repo.AddPlayer(context.Background(), "ghost", "u-1")
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})
}

func TestTeamScanPlayers(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresTeamRepository(db)

	mock.ExpectQuery(`WHERE tournament_id = \$1 AND \$2 = ANY\(player_ids\)`).
		WithArgs("t-1", "u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_name", "captain_id", "tournament_id", "player_ids", "created_at"}).
			AddRow("team-1", "Crew", "u-1", "t-1", "{u-1,u-2}", time.Now()))

	team, err := repo.FindByTournamentAndPlayer(context.Background(), "t-1", "u-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1", "u-2"}, team.PlayerIDs)
	assert.True(t, team.HasPlayer("u-2"))
}

func TestPostgresErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"})

		err := NewPostgresUserRepository(db).Create(ctx, &models.User{ID: "u-1", Email: "dup@example.com"})
		assert.ErrorIs(t, err, ErrUserEmailConflict)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO registrations`).
			WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "registrations_team_id_tournament_id_key"})

		err := NewPostgresRegistrationRepository(db).Create(ctx, nil, &models.Registration{ID: "r-1", TeamID: "team-1", TournamentID: "t-1"})
		assert.ErrorIs(t, err, ErrRegistrationConflict)
	})

	t.Run("team for unknown tournament", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO teams`).
			WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "teams_tournament_id_fkey"})

		err := NewPostgresTeamRepository(db).Create(ctx, nil, &models.Team{ID: "team-1", TournamentID: "ghost"})
		assert.ErrorIs(t, err, ErrTeamTournamentInvalid)
	})

	t.Run("negative points", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO leaderboard`).
			WillReturnError(&pq.Error{Code: pqCheckViolation, Constraint: "leaderboard_points_check"})

		err := NewPostgresLeaderboardRepository(db).Create(ctx, &models.LeaderboardEntry{ID: "e-1", Points: -1})
		assert.ErrorIs(t, err, ErrLeaderboardInvalidPoints)
	})

	t.Run("points out of integer range", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(`UPDATE leaderboard`).
			WillReturnError(&pq.Error{Code: pqNumericOutOfRange})

		err := NewPostgresLeaderboardRepository(db).Update(ctx, &models.LeaderboardEntry{ID: "e-1", Points: 1})
		assert.ErrorIs(t, err, ErrLeaderboardInvalidPoints)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		db, mock := newMock(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery(`INSERT INTO sponsors`).WillReturnError(boom)

		err := NewPostgresSponsorRepository(db).Create(ctx, &models.Sponsor{ID: "s-1"})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to create sponsor")
	})
}

func TestLeaderboardUpdateAndDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresLeaderboardRepository(db)

	mock.ExpectQuery(`UPDATE leaderboard`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
	mock.ExpectQuery(`DELETE FROM leaderboard WHERE id = \$1 RETURNING`).
		WithArgs("e-404").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "tournament_id", "team_name", "points", "created_at", "updated_at"}))

	err := repo.Update(context.Background(), &models.LeaderboardEntry{ID: "e-404", Points: 3})
	assert.ErrorIs(t, err, ErrLeaderboardEntryNotFound)

	_, err = repo.Delete(context.Background(), "e-404")
	assert.ErrorIs(t, err, ErrLeaderboardEntryNotFound)
}

func TestLeaderboardListOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresLeaderboardRepository(db)

	mock.ExpectQuery(`FROM leaderboard WHERE tournament_id = \$1 ORDER BY points DESC, created_at ASC, id ASC`).
		WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "tournament_id", "team_name", "points", "created_at", "updated_at"}))

	entries, err := repo.ListByTournament(context.Background(), "t-1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSponsorDeleteReturnsRemovedRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresSponsorRepository(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`DELETE FROM sponsors WHERE id = \$1 RETURNING`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "description", "logo", "website", "created_at"}).
			AddRow("s-1", "Acme", "Snacks", "https://cdn/logo.png", "https://acme.example", created))
	mock.ExpectQuery(`DELETE FROM sponsors WHERE id = \$1 RETURNING`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "description", "logo", "website", "created_at"}))

	sponsor, err := repo.Delete(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", sponsor.CompanyName)
	assert.Equal(t, created, sponsor.CreatedAt)

	_, err = repo.Delete(context.Background(), "s-1")
	assert.ErrorIs(t, err, ErrSponsorNotFound)
}

func TestWithinTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tournaments`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := NewTransactor(db).WithinTx(context.Background(), func(exec SQLExecutor) error {
			return NewPostgresTournamentRepository(db).IncrementRegisteredTeams(context.Background(), exec, "t-1")
		})
		assert.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tournaments`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := NewTransactor(db).WithinTx(context.Background(), func(exec SQLExecutor) error {
			return NewPostgresTournamentRepository(db).IncrementRegisteredTeams(context.Background(), exec, "t-1")
		})
		assert.ErrorIs(t, err, ErrTournamentFull)
	})
}

func TestLeaderboardUpdateKeepsTimestampForSameValues(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresLeaderboardRepository(db)

	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	touched := created.Add(time.Hour)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`IS DISTINCT FROM \(\$2, \$3, \$4, \$5\) THEN NOW\(\)\s+ELSE updated_at`).
			WithArgs("e-1", "team-1", "t-1", "Crew", 12).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, touched))
	}

	first := &models.LeaderboardEntry{ID: "e-1", TeamID: "team-1", TournamentID: "t-1", TeamName: "Crew", Points: 12}
	require.NoError(t, repo.Update(context.Background(), first))
	second := &models.LeaderboardEntry{ID: "e-1", TeamID: "team-1", TournamentID: "t-1", TeamName: "Crew", Points: 12}
	require.NoError(t, repo.Update(context.Background(), second))

	assert.Equal(t, *first, *second)
	assert.Equal(t, touched, second.UpdatedAt)
}

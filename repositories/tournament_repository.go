package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/heistgames/tournament-hub/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentFull         = errors.New("tournament has reached its team limit")
	ErrTournamentInvalidDates = errors.New("tournament end must be after start")
)

type ListTournamentsFilter struct {
	// UpcomingAfter оставляет только турниры, которые заканчиваются позже этого момента,
	// и сортирует их по дате окончания.
	UpcomingAfter *time.Time
	Limit         int
	Offset        int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	ListNewestFirst(ctx context.Context) ([]models.Tournament, error)
	NamesByIDs(ctx context.Context, ids []string) (map[string]string, error)
	SetRegistrationOpen(ctx context.Context, id string, open bool) error
	IncrementRegisteredTeams(ctx context.Context, exec SQLExecutor, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, openOnly bool) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `
	id, name, description, start_date_time, end_date_time, prize_pool, max_team_count,
	registered_teams_count, image, streaming_url, is_registration_open, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			id, name, description, start_date_time, end_date_time, prize_pool, max_team_count,
			registered_teams_count, image, streaming_url, is_registration_open
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Description, t.StartDateTime, t.EndDateTime, t.PrizePool, t.MaxTeamCount,
		t.RegisteredTeamsCount, t.Image, t.StreamingURL, t.IsRegistrationOpen,
	).Scan(&t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.UpcomingAfter != nil {
		query += fmt.Sprintf(" AND end_date_time > $%d ORDER BY end_date_time ASC, created_at ASC", argID)
		args = append(args, *filter.UpcomingAfter)
		argID++
	} else {
		query += " ORDER BY start_date_time DESC, created_at DESC"
	}

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	return r.queryTournaments(ctx, query, args...)
}

func (r *postgresTournamentRepository) ListNewestFirst(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY created_at DESC`
	return r.queryTournaments(ctx, query)
}

// NamesByIDs возвращает имена найденных турниров. Отсутствующие ID в карту не попадают.
func (r *postgresTournamentRepository) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tournaments WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tournament name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (r *postgresTournamentRepository) SetRegistrationOpen(ctx context.Context, id string, open bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET is_registration_open = $1 WHERE id = $2`, open, id)
	if err != nil {
		return fmt.Errorf("failed to update registration flag: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// IncrementRegisteredTeams увеличивает счётчик команд одним UPDATE, чтобы
// параллельные регистрации не теряли инкременты и не превышали лимит.
func (r *postgresTournamentRepository) IncrementRegisteredTeams(ctx context.Context, exec SQLExecutor, id string) error {
	executor := pickExecutor(r.db, exec)
	query := `
		UPDATE tournaments
		SET registered_teams_count = registered_teams_count + 1
		WHERE id = $1
		  AND (max_team_count IS NULL OR registered_teams_count < max_team_count)`

	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment registered teams: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentFull)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Count(ctx context.Context, openOnly bool) (int, error) {
	if openOnly {
		return countRows(ctx, r.db, `SELECT COUNT(*) FROM tournaments WHERE is_registration_open`)
	}
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM tournaments`)
}

func (r *postgresTournamentRepository) queryTournaments(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var t models.Tournament
	var maxTeams sql.NullInt64
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.StartDateTime, &t.EndDateTime, &t.PrizePool, &maxTeams,
		&t.RegisteredTeamsCount, &t.Image, &t.StreamingURL, &t.IsRegistrationOpen, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxTeams.Valid {
		v := int(maxTeams.Int64)
		t.MaxTeamCount = &v
	}
	return &t, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		if code == pqCheckViolation && constraint == "tournaments_dates_check" {
			return ErrTournamentInvalidDates
		}
	}
	return err
}

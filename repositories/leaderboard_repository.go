package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
)

var (
	ErrLeaderboardEntryNotFound = errors.New("leaderboard entry not found")
	ErrLeaderboardInvalidPoints = errors.New("leaderboard points must not be negative")
)

type LeaderboardRepository interface {
	Create(ctx context.Context, entry *models.LeaderboardEntry) error
	GetByID(ctx context.Context, id string) (*models.LeaderboardEntry, error)
	Update(ctx context.Context, entry *models.LeaderboardEntry) error
	Delete(ctx context.Context, id string) (*models.LeaderboardEntry, error)
	List(ctx context.Context) ([]models.LeaderboardEntry, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

const leaderboardColumns = `id, team_id, tournament_id, team_name, points, created_at, updated_at`

// Порядок рейтинга: очки по убыванию, при равенстве очков порядок добавления.
const leaderboardOrder = ` ORDER BY points DESC, created_at ASC, id ASC`

func (r *postgresLeaderboardRepository) Create(ctx context.Context, entry *models.LeaderboardEntry) error {
	query := `
		INSERT INTO leaderboard (id, team_id, tournament_id, team_name, points)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.TeamID, entry.TournamentID, entry.TeamName, entry.Points,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return handleLeaderboardError(err, "create")
	}
	return nil
}

func (r *postgresLeaderboardRepository) GetByID(ctx context.Context, id string) (*models.LeaderboardEntry, error) {
	query := `SELECT ` + leaderboardColumns + ` FROM leaderboard WHERE id = $1`
	entry, err := scanLeaderboardEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardEntryNotFound
		}
		return nil, fmt.Errorf("failed to get leaderboard entry: %w", err)
	}
	return entry, nil
}

// Update перезаписывает все изменяемые поля записи. Повторный вызов с теми же
// данными оставляет строку без изменений, включая updated_at.
func (r *postgresLeaderboardRepository) Update(ctx context.Context, entry *models.LeaderboardEntry) error {
	query := `
		UPDATE leaderboard
		SET team_id = $2, tournament_id = $3, team_name = $4, points = $5,
			updated_at = CASE
				WHEN (team_id, tournament_id, team_name, points) IS DISTINCT FROM ($2, $3, $4, $5) THEN NOW()
				ELSE updated_at
			END
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.ID, entry.TeamID, entry.TournamentID, entry.TeamName, entry.Points,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeaderboardEntryNotFound
		}
		return handleLeaderboardError(err, "update")
	}
	return nil
}

func (r *postgresLeaderboardRepository) Delete(ctx context.Context, id string) (*models.LeaderboardEntry, error) {
	query := `DELETE FROM leaderboard WHERE id = $1 RETURNING ` + leaderboardColumns
	entry, err := scanLeaderboardEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardEntryNotFound
		}
		return nil, fmt.Errorf("failed to delete leaderboard entry: %w", err)
	}
	return entry, nil
}

func (r *postgresLeaderboardRepository) List(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return r.list(ctx, `SELECT `+leaderboardColumns+` FROM leaderboard`+leaderboardOrder)
}

func (r *postgresLeaderboardRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.LeaderboardEntry, error) {
	return r.list(ctx, `SELECT `+leaderboardColumns+` FROM leaderboard WHERE tournament_id = $1`+leaderboardOrder, tournamentID)
}

func (r *postgresLeaderboardRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM leaderboard`)
}

func (r *postgresLeaderboardRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		entry, scanErr := scanLeaderboardEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", scanErr)
		}
		entries = append(entries, *entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanLeaderboardEntry(row rowScanner) (*models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	if err := row.Scan(&e.ID, &e.TeamID, &e.TournamentID, &e.TeamName, &e.Points, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func handleLeaderboardError(err error, op string) error {
	if code, _, ok := pqCode(err); ok && (code == pqCheckViolation || code == pqNumericOutOfRange) {
		return ErrLeaderboardInvalidPoints
	}
	return fmt.Errorf("failed to %s leaderboard entry: %w", op, err)
}

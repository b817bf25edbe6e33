package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
	"github.com/lib/pq"
)

var ErrRegistrationConflict = errors.New("team is already registered for this tournament")

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	ListForPlayer(ctx context.Context, userID string) ([]models.MyTournament, error)
	Count(ctx context.Context) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	executor := pickExecutor(r.db, exec)
	query := `
		INSERT INTO registrations (id, team_id, tournament_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query, reg.ID, reg.TeamID, reg.TournamentID).Scan(&reg.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok {
			switch {
			case code == pqUniqueViolation && constraint == "registrations_team_id_tournament_id_key":
				return ErrRegistrationConflict
			case code == pqForeignKeyViolation && constraint == "registrations_tournament_id_fkey":
				return ErrTournamentNotFound
			case code == pqForeignKeyViolation && constraint == "registrations_team_id_fkey":
				return ErrTeamNotFound
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// ListForPlayer возвращает турниры, в командах которых состоит пользователь.
func (r *postgresRegistrationRepository) ListForPlayer(ctx context.Context, userID string) ([]models.MyTournament, error) {
	query := `
		SELECT
			t.id, t.name, t.description, t.start_date_time, t.end_date_time, t.prize_pool, t.max_team_count,
			t.registered_teams_count, t.image, t.streaming_url, t.is_registration_open, t.created_at,
			tm.id, tm.team_name, tm.captain_id, tm.tournament_id, tm.player_ids, tm.created_at
		FROM registrations reg
		JOIN teams tm ON tm.id = reg.team_id
		JOIN tournaments t ON t.id = reg.tournament_id
		WHERE $1 = ANY(tm.player_ids)
		ORDER BY t.start_date_time ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for player: %w", err)
	}
	defer rows.Close()

	result := make([]models.MyTournament, 0)
	for rows.Next() {
		var item models.MyTournament
		var maxTeams sql.NullInt64
		t := &item.Tournament
		tm := &item.Team
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.StartDateTime, &t.EndDateTime, &t.PrizePool, &maxTeams,
			&t.RegisteredTeamsCount, &t.Image, &t.StreamingURL, &t.IsRegistrationOpen, &t.CreatedAt,
			&tm.ID, &tm.TeamName, &tm.CaptainID, &tm.TournamentID, pq.Array(&tm.PlayerIDs), &tm.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		if maxTeams.Valid {
			v := int(maxTeams.Int64)
			t.MaxTeamCount = &v
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRegistrationRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM registrations`)
}

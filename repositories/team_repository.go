package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
	ErrPlayerAlreadyInTeam   = errors.New("player is already in the team")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	FirstByTournament(ctx context.Context, tournamentID string) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error)
	FindByTournamentAndPlayer(ctx context.Context, tournamentID, userID string) (*models.Team, error)
	AddPlayer(ctx context.Context, teamID, userID string) error
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, team_name, captain_id, tournament_id, player_ids, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := pickExecutor(r.db, exec)
	query := `
		INSERT INTO teams (id, team_name, captain_id, tournament_id, player_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		team.ID,
		team.TeamName,
		team.CaptainID,
		team.TournamentID,
		pq.Array(team.PlayerIDs),
	).Scan(&team.CreatedAt)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok && code == pqForeignKeyViolation && constraint == "teams_tournament_id_fkey" {
			return ErrTeamTournamentInvalid
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FirstByTournament возвращает самую раннюю команду турнира.
func (r *postgresTeamRepository) FirstByTournament(ctx context.Context, tournamentID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	return r.findOne(ctx, query, tournamentID)
}

func (r *postgresTeamRepository) FindByTournamentAndPlayer(ctx context.Context, tournamentID, userID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 AND $2 = ANY(player_ids) LIMIT 1`
	return r.findOne(ctx, query, tournamentID, userID)
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams by tournament: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan team: %w", scanErr)
		}
		teams = append(teams, *team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// AddPlayer добавляет игрока в состав. Повторное добавление того же игрока
// возвращает ErrPlayerAlreadyInTeam.
func (r *postgresTeamRepository) AddPlayer(ctx context.Context, teamID, userID string) error {
	query := `
		UPDATE teams
		SET player_ids = array_append(player_ids, $2)
		WHERE id = $1 AND NOT ($2 = ANY(player_ids))`

	result, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to add player to team: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Ни одной строки: либо команды нет, либо игрок уже в составе.
	if _, err := r.GetByID(ctx, teamID); err != nil {
		return err
	}
	return ErrPlayerAlreadyInTeam
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM teams`)
}

func (r *postgresTeamRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID,
		&team.TeamName,
		&team.CaptainID,
		&team.TournamentID,
		pq.Array(&team.PlayerIDs),
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if team.PlayerIDs == nil {
		team.PlayerIDs = []string{}
	}
	return &team, nil
}

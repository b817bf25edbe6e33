package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
)

var ErrSponsorNotFound = errors.New("sponsor not found")

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *models.Sponsor) error
	List(ctx context.Context) ([]models.Sponsor, error)
	Delete(ctx context.Context, id string) (*models.Sponsor, error)
	Count(ctx context.Context) (int, error)
}

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

const sponsorColumns = `id, company_name, description, logo, website, created_at`

func (r *postgresSponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	query := `
		INSERT INTO sponsors (id, company_name, description, logo, website)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		sponsor.ID, sponsor.CompanyName, sponsor.Description, sponsor.Logo, sponsor.Website,
	).Scan(&sponsor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sponsor: %w", err)
	}
	return nil
}

func (r *postgresSponsorRepository) List(ctx context.Context) ([]models.Sponsor, error) {
	query := `SELECT ` + sponsorColumns + ` FROM sponsors ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := make([]models.Sponsor, 0)
	for rows.Next() {
		s, scanErr := scanSponsor(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan sponsor: %w", scanErr)
		}
		sponsors = append(sponsors, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sponsors, nil
}

// Delete удаляет ровно одну запись и возвращает её.
func (r *postgresSponsorRepository) Delete(ctx context.Context, id string) (*models.Sponsor, error) {
	query := `DELETE FROM sponsors WHERE id = $1 RETURNING ` + sponsorColumns
	s, err := scanSponsor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSponsorNotFound
		}
		return nil, fmt.Errorf("failed to delete sponsor: %w", err)
	}
	return s, nil
}

func (r *postgresSponsorRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM sponsors`)
}

func scanSponsor(row rowScanner) (*models.Sponsor, error) {
	var s models.Sponsor
	if err := row.Scan(&s.ID, &s.CompanyName, &s.Description, &s.Logo, &s.Website, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

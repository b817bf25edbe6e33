package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heistgames/tournament-hub/models"
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.SponsorInquiry) error
	List(ctx context.Context) ([]models.SponsorInquiry, error)
	Count(ctx context.Context) (int, error)
}

type postgresInquiryRepository struct {
	db *sql.DB
}

func NewPostgresInquiryRepository(db *sql.DB) InquiryRepository {
	return &postgresInquiryRepository{db: db}
}

func (r *postgresInquiryRepository) Create(ctx context.Context, inquiry *models.SponsorInquiry) error {
	query := `
		INSERT INTO sponsor_inquiries (id, name, email, company_name, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		inquiry.ID, inquiry.Name, inquiry.Email, inquiry.CompanyName, inquiry.Message,
	).Scan(&inquiry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sponsor inquiry: %w", err)
	}
	return nil
}

func (r *postgresInquiryRepository) List(ctx context.Context) ([]models.SponsorInquiry, error) {
	query := `
		SELECT id, name, email, company_name, message, created_at
		FROM sponsor_inquiries
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsor inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]models.SponsorInquiry, 0)
	for rows.Next() {
		var q models.SponsorInquiry
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.CompanyName, &q.Message, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor inquiry: %w", err)
		}
		inquiries = append(inquiries, q)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *postgresInquiryRepository) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM sponsor_inquiries`)
}

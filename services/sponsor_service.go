package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/storage"
)

type CreateSponsorInput struct {
	CompanyName string      `form:"companyName" validate:"required,min=2"`
	Description string      `form:"description" validate:"required,min=10"`
	Website     string      `form:"website" validate:"omitempty,url"`
	Logo        *FileUpload `form:"logo" validate:"required"`
}

type SponsorInquiryInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"companyName" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

type SponsorService interface {
	ListSponsors(ctx context.Context) ([]models.Sponsor, error)
	CreateSponsor(ctx context.Context, input CreateSponsorInput) (*models.Sponsor, error)
	DeleteSponsor(ctx context.Context, id string) (*models.Sponsor, error)
	SubmitInquiry(ctx context.Context, input SponsorInquiryInput) (*models.SponsorInquiry, error)
	ListInquiries(ctx context.Context) ([]models.SponsorInquiry, error)
}

type sponsorService struct {
	sponsorRepo repositories.SponsorRepository
	inquiryRepo repositories.InquiryRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewSponsorService(
	sponsorRepo repositories.SponsorRepository,
	inquiryRepo repositories.InquiryRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) SponsorService {
	return &sponsorService{
		sponsorRepo: sponsorRepo,
		inquiryRepo: inquiryRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

const sponsorLogosFolder = "sponsors"

func (s *sponsorService) ListSponsors(ctx context.Context) ([]models.Sponsor, error) {
	return s.sponsorRepo.List(ctx)
}

// CreateSponsor загружает логотип и сохраняет спонсора. Ошибка загрузки
// прерывает создание: запись без логотипа не появляется.
func (s *sponsorService) CreateSponsor(ctx context.Context, input CreateSponsorInput) (*models.Sponsor, error) {
	if input.Logo == nil {
		return nil, fmt.Errorf("%w: logo is required", ErrValidationFailed)
	}

	logo, err := uploadImage(ctx, s.uploader, sponsorLogosFolder, input.Logo)
	if err != nil {
		return nil, err
	}

	sponsor := &models.Sponsor{
		ID:          uuid.NewString(),
		CompanyName: strings.TrimSpace(input.CompanyName),
		Description: strings.TrimSpace(input.Description),
		Logo:        uploadLocation(logo),
		Website:     optionalString(input.Website),
	}
	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		discardUpload(ctx, s.uploader, s.logger, logo)
		return nil, fmt.Errorf("failed to create sponsor: %w", err)
	}

	s.logger.InfoContext(ctx, "sponsor created", slog.String("sponsor_id", sponsor.ID), slog.String("company", sponsor.CompanyName))
	return sponsor, nil
}

func (s *sponsorService) DeleteSponsor(ctx context.Context, id string) (*models.Sponsor, error) {
	sponsor, err := s.sponsorRepo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	s.logger.InfoContext(ctx, "sponsor deleted", slog.String("sponsor_id", id))
	return sponsor, nil
}

func (s *sponsorService) SubmitInquiry(ctx context.Context, input SponsorInquiryInput) (*models.SponsorInquiry, error) {
	inquiry := &models.SponsorInquiry{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		CompanyName: strings.TrimSpace(input.CompanyName),
		Message:     strings.TrimSpace(input.Message),
	}
	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("failed to submit sponsor inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *sponsorService) ListInquiries(ctx context.Context) ([]models.SponsorInquiry, error) {
	return s.inquiryRepo.List(ctx)
}

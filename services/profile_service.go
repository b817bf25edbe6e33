package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/storage"
)

type UpdateProfileInput struct {
	FirstName       string      `form:"firstName" validate:"required,min=2"`
	LastName        string      `form:"lastName" validate:"required,min=2"`
	DiscordUsername string      `form:"discordUsername" validate:"omitempty,max=64"`
	ProfilePicture  *FileUpload `form:"-"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error)
	ListMyTournaments(ctx context.Context, userID string) ([]models.MyTournament, error)
}

type profileService struct {
	userRepo         repositories.UserRepository
	registrationRepo repositories.RegistrationRepository
	uploader         storage.FileUploader
	logger           *slog.Logger
}

func NewProfileService(
	userRepo repositories.UserRepository,
	registrationRepo repositories.RegistrationRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ProfileService {
	return &profileService{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		uploader:         uploader,
		logger:           logger,
	}
}

const avatarsFolder = "avatars"

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile меняет имя и discord. Аватар заменяется только если передан новый файл.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	avatar, err := uploadImage(ctx, s.uploader, avatarsFolder, input.ProfilePicture)
	if err != nil {
		return nil, err
	}
	if avatar != nil {
		user.AvatarURL = &avatar.Location
	}

	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.DiscordUsername = optionalString(input.DiscordUsername)

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		discardUpload(ctx, s.uploader, s.logger, avatar)
		mapped := mapRepoError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		return nil, mapped
	}

	s.logger.InfoContext(ctx, "profile updated", slog.String("user_id", userID))
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) ListMyTournaments(ctx context.Context, userID string) ([]models.MyTournament, error) {
	return s.registrationRepo.ListForPlayer(ctx, userID)
}

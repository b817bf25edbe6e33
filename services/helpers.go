package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/heistgames/tournament-hub/repositories"
	"github.com/heistgames/tournament-hub/storage"
)

// FileUpload хранит файл из multipart-формы, готовый к загрузке в хранилище.
type FileUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// uploadImage загружает картинку в хранилище. Без файла возвращает nil.
// Любая ошибка хранилища прерывает запрос целиком.
func uploadImage(ctx context.Context, uploader storage.FileUploader, folder string, file *FileUpload) (*storage.UploadResult, error) {
	if file == nil {
		return nil, nil
	}
	if !strings.HasPrefix(strings.ToLower(file.ContentType), "image/") {
		return nil, ErrInvalidImage
	}
	if uploader == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrUploadFailed)
	}

	result, err := uploader.Upload(ctx, storage.ObjectKey(folder, file.Filename), file.ContentType, file.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return result, nil
}

// discardUpload удаляет объект, запись о котором так и не попала в базу.
func discardUpload(ctx context.Context, uploader storage.FileUploader, logger *slog.Logger, result *storage.UploadResult) {
	if result == nil || uploader == nil {
		return
	}
	if err := uploader.Delete(ctx, result.Key); err != nil {
		logger.WarnContext(ctx, "failed to remove orphaned upload", slog.String("key", result.Key), slog.Any("error", err))
	}
}

func uploadLocation(result *storage.UploadResult) string {
	if result == nil {
		return ""
	}
	return result.Location
}

// mapRepoError переводит ошибки репозиториев в ошибки сервисного слоя.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentFull):
		return ErrTournamentFull
	case errors.Is(err, repositories.ErrTournamentInvalidDates):
		return ErrTournamentInvalidDateRange
	case errors.Is(err, repositories.ErrTeamNotFound), errors.Is(err, repositories.ErrTeamTournamentInvalid):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrPlayerAlreadyInTeam):
		return ErrUserAlreadyInTeam
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrRegistrationConflict
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrUserEmailConflict
	case errors.Is(err, repositories.ErrLeaderboardEntryNotFound):
		return ErrLeaderboardEntryNotFound
	case errors.Is(err, repositories.ErrLeaderboardInvalidPoints):
		return ErrInvalidPoints
	case errors.Is(err, repositories.ErrSponsorNotFound):
		return ErrSponsorNotFound
	default:
		return err
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

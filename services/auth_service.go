package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/heistgames/tournament-hub/models"
	"github.com/heistgames/tournament-hub/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	ResetTokenTTL     = 15 * time.Minute
	MinPasswordLength = 8
	passwordHashCost  = 10
)

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// CreateUserInput используется только CLI: регистрация пользователей идёт через внешний провайдер.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.UserRole
}

type AuthService interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, newPassword string) error
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
}

type resetClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	mailer    Mailer
	secret    []byte
	publicURL string
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, mailer Mailer, secret string, publicURL string, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		mailer:    mailer,
		secret:    []byte(secret),
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// RequestPasswordReset выпускает токен сброса на 15 минут и отправляет ссылку на почту.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("failed to find user by email: %w", err)
	}

	token, err := s.issueResetToken(user.ID)
	if err != nil {
		return err
	}

	firstName := user.FirstName
	if firstName == "" {
		firstName = "there"
	}

	err = s.mailer.SendPasswordResetEmail(PasswordResetEmail{
		Email:        email,
		FirstName:    firstName,
		ResetLink:    s.resetLink(token, email),
		ValidMinutes: int(ResetTokenTTL / time.Minute),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email", slog.String("user_id", user.ID), slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrEmailSendFailed, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if token == "" || newPassword == "" {
		return ErrValidationFailed
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	userID, err := s.parseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("user_id", userID))
	return nil
}

func (s *authService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Role:         role,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		mapped := mapRepoError(err)
		if mapped == err {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return nil, mapped
	}
	user.PasswordHash = ""
	return user, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) issueResetToken(userID string) (string, error) {
	now := s.now()
	claims := resetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

var resetTokenParser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

func (s *authService) parseResetToken(raw string) (string, error) {
	claims := &resetClaims{}
	token, err := resetTokenParser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ExpiresAt == nil || claims.UserID == "" {
		return "", ErrInvalidResetToken
	}
	return claims.UserID, nil
}

func (s *authService) resetLink(token, email string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.publicURL, url.QueryEscape(token), url.QueryEscape(email))
}

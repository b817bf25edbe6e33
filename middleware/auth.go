package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/heistgames/tournament-hub/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName: cookie, в которой внешний провайдер авторизации хранит токен сессии.
const SessionCookieName = "session_token"

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Session описывает пользователя текущего запроса так, как его выдаёт провайдер авторизации.
type Session struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type sessionClaims struct {
	User Session `json:"user"`
	jwt.RegisteredClaims
}

// Authenticate проверяет HS256-токен из заголовка Authorization или cookie
// и кладёт сессию в контекст запроса. Без валидной сессии отвечает 401.
func Authenticate(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionFromRequest(r, key)
			if err != nil {
				slog.Debug("authentication failed", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только сессии с ролью ADMIN. Должен стоять после Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok || !session.IsAdmin() {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// WithSession возвращает контекст с сессией. Используется в тестах обработчиков.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// NewSessionToken подписывает токен сессии. Нужен CLI и тестам: в проде токены выдаёт провайдер.
func NewSessionToken(secret string, session Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		User: session,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Сессии подписываются только HS256.
var sessionParser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

func sessionFromRequest(r *http.Request, key []byte) (Session, error) {
	raw := bearerToken(r)
	if raw == "" {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			raw = cookie.Value
		}
	}
	if raw == "" {
		return Session{}, ErrMissingToken
	}

	claims := &sessionClaims{}
	token, err := sessionParser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return Session{}, fmt.Errorf("%w: exp claim is missing", ErrInvalidToken)
	}
	if claims.User.ID == "" {
		return Session{}, fmt.Errorf("%w: user id claim is empty", ErrInvalidToken)
	}
	return claims.User, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

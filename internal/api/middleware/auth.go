package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dom/wallet-custody-api/internal/domain"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// Authenticator resolves a bearer access token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

func Auth(authenticator Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.Auth"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("missing authorization header")
				unauthorized(w, r, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				log.Debug("invalid authorization header format")
				unauthorized(w, r, "Invalid authorization header")
				return
			}

			userID, err := authenticator.Authenticate(r.Context(), parts[1])
			if err != nil {
				if domain.KindOf(err) != domain.KindAuth {
					log.Error("token check failed", slog.String("err", err.Error()))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, map[string]string{"message": "Internal server error"})
					return
				}
				log.Debug("token validation failed", slog.String("err", err.Error()))
				unauthorized(w, r, domain.ErrInvalidToken.Message)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"message": message})
}

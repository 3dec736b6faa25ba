package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/auth"
	"github.com/moviebuddies/backend/internal/logging"
	"github.com/moviebuddies/backend/internal/models"
)

// TokenValidator resolves a bearer token to the user it belongs to.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (models.User, error)
}

// RequireUser rejects requests without a valid Authorization header with 401
// and stores the resolved user on the request context. The token is the raw
// header value; an optional "Bearer " prefix is tolerated.
func RequireUser(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("Authorization"))
			if rest, ok := strings.CutPrefix(token, "Bearer "); ok {
				token = strings.TrimSpace(rest)
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			user, err := validator.Validate(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperr.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				logging.FromContext(r.Context()).Error("validate token", slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			logger := logging.FromContext(r.Context()).With(slog.Int64("user_id", user.ID))
			ctx := logging.WithLogger(auth.WithUser(r.Context(), user), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/moviebuddies/backend/internal/apperr"
	"github.com/moviebuddies/backend/internal/auth"
	"github.com/moviebuddies/backend/internal/logging"
	"github.com/moviebuddies/backend/internal/models"
)

const maxBodyBytes = 1 << 20

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

func respondMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, map[string]string{"message": message})
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logging.FromContext(ctx)

	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrDuplicateUsername):
		status, message = http.StatusBadRequest, "username already exists"
	case errors.Is(err, apperr.ErrAlreadyFriends):
		status, message = http.StatusBadRequest, "already friends"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "incorrect username or password"
	case errors.Is(err, apperr.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrForbidden):
		status, message = http.StatusForbidden, "not friends"
	case errors.Is(err, apperr.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	respondJSON(ctx, w, status, map[string]string{"message": message})
}

// decodeJSON reads a JSON object body into dst. An empty body or malformed
// JSON is reported as invalid input.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: missing data", apperr.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid request body", apperr.ErrInvalidInput)
	}
	return nil
}

func currentUser(r *http.Request) (models.User, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return models.User{}, apperr.ErrUnauthorized
	}
	return user, nil
}

// pathID parses a numeric route variable. Malformed ids cannot name an owned
// resource, so they are reported as not found.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: unknown id", apperr.ErrNotFound)
	}
	return id, nil
}

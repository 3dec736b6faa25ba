package movies

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/moviebuddies/backend/internal/apperr"
)

const (
	MinRating = 1
	MaxRating = 10
)

// ValidateRating checks a raw JSON rating and returns its canonical string form.
// Ratings are whole numbers between MinRating and MaxRating, sent either as a
// JSON number or as a numeric string.
func ValidateRating(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", fmt.Errorf("%w: rating is required", apperr.ErrInvalidInput)
	}

	var text string
	if strings.HasPrefix(trimmed, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", fmt.Errorf("%w: rating must be a number", apperr.ErrInvalidInput)
		}
	} else {
		text = trimmed
	}

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return "", fmt.Errorf("%w: rating must be a number", apperr.ErrInvalidInput)
	}
	if value < MinRating || value > MaxRating {
		return "", fmt.Errorf("%w: rating must be between %d and %d", apperr.ErrInvalidInput, MinRating, MaxRating)
	}
	return strconv.Itoa(value), nil
}

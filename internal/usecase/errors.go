package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-hub/internal/platform/id"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func parseID(field, raw string) (id.ID, error) {
	v, err := id.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return v, nil
}

// parseOptionalID allows an empty value.
func parseOptionalID(raw string) id.ID {
	v, err := id.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

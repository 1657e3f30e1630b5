package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "fpl-hub"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{
	HTTPStatus: http.StatusInternalServerError,
	Reason:     "internalError",
	Status:     "INTERNAL",
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError renders err with the status from mapError. Server-side failures
// never expose their message; validation failures list one item per violation.
func writeError(_ context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	switch {
	case mapped == internalError:
		writeInternalError(w)
		return
	case mapped.HTTPStatus == http.StatusServiceUnavailable:
		writeOpaqueError(w, mapped, "service temporarily unavailable")
		return
	}

	message := err.Error()
	items := []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}}

	var validationErr *roster.ValidationError
	if errors.As(err, &validationErr) {
		message = "roster violates the squad rules"
		items = make([]googleErrorItem, 0, len(validationErr.Report.Errors))
		for _, violation := range validationErr.Report.Errors {
			items = append(items, googleErrorItem{Domain: errorDomain, Reason: mapped.Reason, Message: violation})
		}
	}

	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  items,
		},
	})
}

func writeInternalError(w http.ResponseWriter) {
	writeOpaqueError(w, internalError, "internal server error")
}

func writeOpaqueError(w http.ResponseWriter, mapped mappedError, msg string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: msg,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{Domain: errorDomain, Reason: mapped.Reason, Message: msg},
			},
		},
	})
}

func mapError(err error) mappedError {
	switch {
	case errors.Is(err, roster.ErrValidationFailed):
		return mappedError{HTTPStatus: http.StatusUnprocessableEntity, Reason: "validationFailed", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, league.ErrInvalidConfig):
		return mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}
	case errors.Is(err, usecase.ErrForbidden):
		return mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Status: "PERMISSION_DENIED"}
	case errors.Is(err, league.ErrFull):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "leagueFull", Status: "RESOURCE_EXHAUSTED"}
	case errors.Is(err, league.ErrDuplicateEntry):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "duplicateEntry", Status: "ALREADY_EXISTS"}
	case errors.Is(err, league.ErrClosedForEntry):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "closedForEntry", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, league.ErrInvalidTransition):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "invalidTransition", Status: "FAILED_PRECONDITION"}
	case errors.Is(err, usecase.ErrConflict):
		return mappedError{HTTPStatus: http.StatusConflict, Reason: "conflict", Status: "ABORTED"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	default:
		return internalError
	}
}

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
	"github.com/riskibarqy/fpl-hub/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	rosterService *usecase.RosterService
	leagueService *usecase.LeagueService
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	rosterService *usecase.RosterService,
	leagueService *usecase.LeagueService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rosterService: rosterService,
		leagueService: leagueService,
		logger:        logger,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAndValidate reads one JSON document into payload and runs its
// validate tags. Unknown fields are rejected.
func (h *Handler) decodeAndValidate(r *http.Request, payload any) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	defer body.Close()

	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}

	if err := h.validator.StructCtx(r.Context(), payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// fail logs by severity and writes the error response. Rejections the
// client can fix are logged at warn; everything else at error with the
// full cause chain.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	mapped := mapError(err)
	switch {
	case mapped == internalError:
		h.logger.ErrorContext(ctx, op+" failed", "error", fmt.Sprintf("%+v", err))
	case mapped.HTTPStatus >= http.StatusInternalServerError:
		h.logger.ErrorContext(ctx, op+" failed", "error", err)
	default:
		h.logger.WarnContext(ctx, op+" rejected", "reason", mapped.Reason, "error", err)
	}
	writeError(ctx, w, err)
}

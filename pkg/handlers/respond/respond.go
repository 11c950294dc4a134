package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/bi-tools/kpi-pulse/pkg/models/api"
	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

func JSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

// Error maps pipeline sentinels onto the wire contract: every failure
// is {"error":{"code","message"}} with a stable code per class.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrUnsupportedMetric):
		status, code = http.StatusBadRequest, "UNSUPPORTED_METRIC"
	case errors.Is(err, domain.ErrInsufficientData):
		status, code = http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"
	case errors.Is(err, domain.ErrDataUnavailable):
		status, code = http.StatusServiceUnavailable, "DATA_UNAVAILABLE"
	case errors.Is(err, domain.ErrJobNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
	}
	JSON(ctx, w, status, api.NewError(code, err.Error()))
}

func BadRequest(ctx context.Context, w http.ResponseWriter, message string) {
	JSON(ctx, w, http.StatusBadRequest, api.NewError("BAD_REQUEST", message))
}

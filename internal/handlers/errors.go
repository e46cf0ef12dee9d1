package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
)

// writeError maps use case errors onto HTTP responses. Slot rejections
// carry their reason code; a taken slot also reports the conflicting window.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var rej *domain.RejectError
	if errors.As(err, &rej) {
		status := http.StatusUnprocessableEntity
		if rej.Reason == domain.ReasonSlotTaken {
			status = http.StatusConflict
		}
		var details any
		if rej.Conflict != nil {
			details = gin.H{
				"conflict_start": rej.Conflict.Start.Format(time.RFC3339),
				"conflict_end":   rej.Conflict.End.Format(time.RFC3339),
			}
		}
		httperr.WriteField(c, status, rej.Reason.Field(), string(rej.Reason), rej.Reason.Message(), details)
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		switch {
		case code == "forbidden":
			httperr.Forbidden(c, code, "Not allowed.")
		case strings.HasSuffix(code, "_not_found"):
			httperr.NotFound(c, code, "Not found.")
		default:
			httperr.BadRequest(c, code, "Request cannot be processed.")
		}
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	httperr.Internal(c, "internal_error", "Unexpected error.")
}

func invalidRequest(c *gin.Context, err error) {
	httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Invalid request.", err.Error())
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/middleware"
	"github.com/ereshiii/pet-connect/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteError(t *testing.T) {
	conflict := domain.WindowAt(time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), 30)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{"slot taken", &domain.RejectError{Reason: domain.ReasonSlotTaken, Conflict: &conflict}, http.StatusConflict, "slot_taken", "scheduled_at"},
		{"calendar", domain.Reject(domain.ReasonAfterClosing), http.StatusUnprocessableEntity, "after_closing", "scheduled_at"},
		{"duration", domain.Reject(domain.ReasonInvalidDuration), http.StatusUnprocessableEntity, "invalid_duration", "duration_minutes"},
		{"no slot", domain.Reject(domain.ReasonNoSlotFound), http.StatusUnprocessableEntity, "no_slot_found", ""},
		{"not found", httperr.ErrBusiness("clinic_not_found"), http.StatusNotFound, "clinic_not_found", ""},
		{"forbidden", httperr.ErrBusiness("forbidden"), http.StatusForbidden, "forbidden", ""},
		{"business", httperr.ErrBusiness("invalid_state"), http.StatusBadRequest, "invalid_state", ""},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			writeError(c, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body httperr.HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

type readerStub struct {
	got audit.Filter
}

func (r *readerStub) List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	r.got = f
	return []models.AuditLog{{ID: 1, ClinicID: f.ClinicID, Action: "appointment_created"}}, 1, nil
}

func TestAuditLogsList(t *testing.T) {
	stub := &readerStub{}
	h := NewAuditLogsHandler(stub, zerolog.Nop())

	r := gin.New()
	r.GET("/logs", func(c *gin.Context) {
		c.Set(middleware.ContextClinicID, uint(4))
		h.List(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs?page=3&limit=10&action=appointment_created&from=2026-10-01&to=2026-10-15", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(4), stub.got.ClinicID)
	assert.Equal(t, 20, stub.got.Offset)
	assert.Equal(t, 10, stub.got.Limit)
	assert.Equal(t, "appointment_created", stub.got.Action)
	require.NotNil(t, stub.got.To)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), *stub.got.To)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logs?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

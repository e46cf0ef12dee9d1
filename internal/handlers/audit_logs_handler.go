package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ereshiii/pet-connect/internal/audit"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/httpresp"
	"github.com/ereshiii/pet-connect/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	reader audit.Reader
	log    zerolog.Logger
}

func NewAuditLogsHandler(reader audit.Reader, log zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader, log: log}
}

// List pages through the caller's clinic audit trail.
func (h *AuditLogsHandler) List(c *gin.Context) {
	clinicID, _ := middleware.ClinicID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		ClinicID: clinicID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	// --------------------------------------------------
	// Date range (inclusive days)
	// --------------------------------------------------
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Invalid from date.")
			return
		}
		f.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Invalid to date.")
			return
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}

	logs, total, err := h.reader.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

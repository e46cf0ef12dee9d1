package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/httpresp"
	"github.com/ereshiii/pet-connect/internal/middleware"
	"github.com/ereshiii/pet-connect/internal/models"
	"github.com/ereshiii/pet-connect/internal/timezone"
)

type ClinicHandler struct {
	repo domain.Repository
	log  zerolog.Logger
}

func NewClinicHandler(repo domain.Repository, log zerolog.Logger) *ClinicHandler {
	return &ClinicHandler{repo: repo, log: log}
}

type clinicResponse struct {
	models.Clinic
	OperatingHours []models.ClinicOperatingHour `json:"operating_hours"`
	// Timezone is the effective zone after falling back to the default.
	Timezone string `json:"timezone"`
}

// Get is the public clinic profile with its week.
func (h *ClinicHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.write(c, id)
}

// GetMine returns the clinic of the calling staff member.
func (h *ClinicHandler) GetMine(c *gin.Context) {
	id, _ := middleware.ClinicID(c)
	h.write(c, id)
}

func (h *ClinicHandler) write(c *gin.Context, id uint) {
	ctx := c.Request.Context()

	clinic, err := h.repo.GetClinicByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, "clinic_not_found", "Clinic not found.")
			return
		}
		writeError(c, h.log, err)
		return
	}

	hours, err := h.repo.ListOperatingHours(ctx, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if hours == nil {
		hours = []models.ClinicOperatingHour{}
	}

	tz := clinic.Timezone
	if !timezone.IsValid(tz) {
		tz = timezone.Default()
	}

	httpresp.OK(c, clinicResponse{
		Clinic:         *clinic,
		OperatingHours: hours,
		Timezone:       tz,
	})
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/httpresp"
	ucAppointment "github.com/ereshiii/pet-connect/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	availability *ucAppointment.GetAvailability
	nextSlot     *ucAppointment.FindNextSlot
	log          zerolog.Logger
}

func NewAvailabilityHandler(
	availability *ucAppointment.GetAvailability,
	nextSlot *ucAppointment.FindNextSlot,
	log zerolog.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		nextSlot:     nextSlot,
		log:          log,
	}
}

// Slots lists free starts for ?date= at ?duration= minutes.
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	clinicID, ok := idParam(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}
	minutes, ok := durationQuery(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ClinicID:        clinicID,
		Date:            date,
		DurationMinutes: minutes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// NextSlot finds the earliest free slot after ?from= (default today).
func (h *AvailabilityHandler) NextSlot(c *gin.Context) {
	clinicID, ok := idParam(c, "id")
	if !ok {
		return
	}
	minutes, ok := durationQuery(c)
	if !ok {
		return
	}

	slot, err := h.nextSlot.Execute(c.Request.Context(), ucAppointment.FindNextSlotInput{
		ClinicID:        clinicID,
		From:            c.Query("from"),
		DurationMinutes: minutes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, slot)
}

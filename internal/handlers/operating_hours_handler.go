package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ereshiii/pet-connect/internal/httpresp"
	"github.com/ereshiii/pet-connect/internal/middleware"
	ucAppointment "github.com/ereshiii/pet-connect/internal/usecase/appointment"
)

type OperatingHoursHandler struct {
	get    *ucAppointment.GetOperatingHours
	update *ucAppointment.UpdateOperatingHours
	log    zerolog.Logger
}

func NewOperatingHoursHandler(
	get *ucAppointment.GetOperatingHours,
	update *ucAppointment.UpdateOperatingHours,
	log zerolog.Logger,
) *OperatingHoursHandler {
	return &OperatingHoursHandler{get: get, update: update, log: log}
}

type OperatingDayRequest struct {
	DayOfWeek  string `json:"day_of_week" binding:"required,weekday"`
	IsClosed   bool   `json:"is_closed"`
	OpenTime   string `json:"open_time" binding:"omitempty,hhmm"`
	CloseTime  string `json:"close_time" binding:"omitempty,hhmm"`
	BreakStart string `json:"break_start" binding:"omitempty,hhmm"`
	BreakEnd   string `json:"break_end" binding:"omitempty,hhmm"`
}

type OperatingHoursUpdateRequest struct {
	Days []OperatingDayRequest `json:"days" binding:"required,max=7,dive"`
}

func (h *OperatingHoursHandler) Get(c *gin.Context) {
	clinicID, _ := middleware.ClinicID(c)

	hours, err := h.get.Execute(c.Request.Context(), clinicID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, hours)
}

func (h *OperatingHoursHandler) Update(c *gin.Context) {
	clinicID, _ := middleware.ClinicID(c)

	var req OperatingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	days := make([]ucAppointment.OperatingDay, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, ucAppointment.OperatingDay{
			DayOfWeek:  d.DayOfWeek,
			IsClosed:   d.IsClosed,
			OpenTime:   d.OpenTime,
			CloseTime:  d.CloseTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	hours, err := h.update.Execute(c.Request.Context(), actorFrom(c), clinicID, days)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, hours)
}

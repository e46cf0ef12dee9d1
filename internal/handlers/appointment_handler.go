package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/httpresp"
	"github.com/ereshiii/pet-connect/internal/middleware"
	ucAppointment "github.com/ereshiii/pet-connect/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *ucAppointment.BookAppointment
	reschedule *ucAppointment.RescheduleAppointment
	cancel     *ucAppointment.CancelAppointment
	status     *ucAppointment.ChangeStatus
	byDate     *ucAppointment.ListAppointmentsByDate
	byMonth    *ucAppointment.ListAppointmentsByMonth
	log        zerolog.Logger
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	cancel *ucAppointment.CancelAppointment,
	status *ucAppointment.ChangeStatus,
	byDate *ucAppointment.ListAppointmentsByDate,
	byMonth *ucAppointment.ListAppointmentsByMonth,
	log zerolog.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		reschedule: reschedule,
		cancel:     cancel,
		status:     status,
		byDate:     byDate,
		byMonth:    byMonth,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	PetID               uint   `json:"pet_id" binding:"required"`
	ServiceIDs          []uint `json:"service_ids" binding:"required,len=1,dive,required"`
	StaffID             *uint  `json:"staff_id"`
	Date                string `json:"date" binding:"required,datetime=2006-01-02"`
	Time                string `json:"time" binding:"required,hhmm"`
	DurationMinutes     int    `json:"duration_minutes"`
	IsFollowUp          bool   `json:"is_follow_up"`
	Reason              string `json:"reason" binding:"required,max=255"`
	ContactPhone        string `json:"contact_phone" binding:"required,phone"`
	Notes               string `json:"notes" binding:"max=1000"`
	SpecialInstructions string `json:"special_instructions" binding:"max=1000"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,hhmm"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	clinicID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		ClinicID:        clinicID,
		OwnerID:         middleware.UserID(c),
		PetID:           req.PetID,
		ServiceIDs:      req.ServiceIDs,
		StaffID:         req.StaffID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		IsFollowUp:      req.IsFollowUp,

		Reason:              req.Reason,
		ContactPhone:        req.ContactPhone,
		Notes:               req.Notes,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// RESCHEDULE / CANCEL
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID: id,
		Actor:         actorFrom(c),
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequest(c, err)
			return
		}
	}

	ap, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STAFF TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context)    { h.changeStatus(c, domain.StatusConfirmed) }
func (h *AppointmentHandler) Start(c *gin.Context)      { h.changeStatus(c, domain.StatusInProgress) }
func (h *AppointmentHandler) Complete(c *gin.Context)   { h.changeStatus(c, domain.StatusCompleted) }
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) { h.changeStatus(c, domain.StatusNoShow) }

func (h *AppointmentHandler) changeStatus(c *gin.Context, to domain.Status) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), actorFrom(c), id, to)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// LIST (clinic staff)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	clinicID, _ := middleware.ClinicID(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	list, err := h.byDate.Execute(c.Request.Context(), clinicID, date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	clinicID, _ := middleware.ClinicID(c)

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), clinicID, year, month)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

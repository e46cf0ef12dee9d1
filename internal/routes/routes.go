package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ereshiii/pet-connect/internal/audit"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/handlers"
	"github.com/ereshiii/pet-connect/internal/metrics"
	"github.com/ereshiii/pet-connect/internal/middleware"
	"github.com/ereshiii/pet-connect/internal/timezone"
	ucAppointment "github.com/ereshiii/pet-connect/internal/usecase/appointment"
)

// Deps is what the HTTP surface is built from.
type Deps struct {
	Repo    domain.Repository
	Audit   audit.Recorder
	Metrics metrics.Recorder
	Clock   timezone.Clock
	Log     zerolog.Logger

	JWTSecret     string
	SearchMaxDays int

	// AuditReader backs /api/me/audit-logs; nil leaves the route out.
	AuditReader audit.Reader
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer    prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// USE CASES
	// ======================================================
	bookUC := ucAppointment.NewBookAppointment(d.Repo, d.Audit, d.Metrics, d.Clock)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(d.Repo, d.Audit, d.Metrics, d.Clock)
	cancelUC := ucAppointment.NewCancelAppointment(d.Repo, d.Audit, d.Clock)
	changeStatusUC := ucAppointment.NewChangeStatus(d.Repo, d.Audit, d.Clock)
	listByDateUC := ucAppointment.NewListAppointmentsByDate(d.Repo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(d.Repo)

	availabilityUC := ucAppointment.NewGetAvailability(d.Repo, d.Clock)
	nextSlotUC := ucAppointment.NewFindNextSlot(d.Repo, d.Clock, d.SearchMaxDays)

	getHoursUC := ucAppointment.NewGetOperatingHours(d.Repo)
	updateHoursUC := ucAppointment.NewUpdateOperatingHours(d.Repo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		rescheduleUC,
		cancelUC,
		changeStatusUC,
		listByDateUC,
		listByMonthUC,
		d.Log,
	)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC, nextSlotUC, d.Log)
	operatingHoursHandler := handlers.NewOperatingHoursHandler(getHoursUC, updateHoursUC, d.Log)
	clinicHandler := handlers.NewClinicHandler(d.Repo, d.Log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/clinics/:id", clinicHandler.Get)
		api.GET("/clinics/:id/availability", availabilityHandler.Slots)
		api.GET("/clinics/:id/next-slot", availabilityHandler.NextSlot)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.JWTSecret))
		{
			secured.POST("/clinics/:id/appointments", appointmentHandler.Book)

			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/start", appointmentHandler.Start)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.MarkNoShow)

			// ------------------------------
			// CLINIC STAFF
			// ------------------------------
			staff := secured.Group("/me")
			staff.Use(middleware.RequireStaff())
			{
				staff.GET("/clinic", clinicHandler.GetMine)
				staff.GET("/appointments", appointmentHandler.ListByDate)
				staff.GET("/appointments/month", appointmentHandler.ListByMonth)

				staff.GET("/operating-hours", operatingHoursHandler.Get)
				staff.PUT("/operating-hours", operatingHoursHandler.Update)

				if d.AuditReader != nil {
					staff.GET("/audit-logs", handlers.NewAuditLogsHandler(d.AuditReader, d.Log).List)
				}
			}
		}
	}
}

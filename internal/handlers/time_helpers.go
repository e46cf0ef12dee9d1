package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ereshiii/pet-connect/internal/httperr"
	"github.com/ereshiii/pet-connect/internal/middleware"
	ucAppointment "github.com/ereshiii/pet-connect/internal/usecase/appointment"
)

// idParam reads a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid identifier.")
		return 0, false
	}
	return uint(id), true
}

// durationQuery reads ?duration=; empty means the default duration.
func durationQuery(c *gin.Context) (int, bool) {
	raw := c.Query("duration")
	if raw == "" {
		return 0, true
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_duration", "Duration must be a number of minutes.")
		return 0, false
	}
	return minutes, true
}

func actorFrom(c *gin.Context) ucAppointment.Actor {
	actor := ucAppointment.Actor{UserID: middleware.UserID(c)}
	if clinicID, ok := middleware.ClinicID(c); ok {
		actor.ClinicID = &clinicID
	}
	return actor
}

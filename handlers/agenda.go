package handlers

import (
	"errors"
	"net/http"

	"agendia/services/scheduling"

	"github.com/gin-gonic/gin"
)

// GetAvailabilityHandler returns the slot grid for one calendar day.
// Before the agenda is configured it answers with an empty grid and a setup
// hint instead of failing, so the public widget always renders.
func GetAvailabilityHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required (YYYY-MM-DD)"})
			return
		}

		day, err := schedSvc.GetAvailability(c.Request.Context(), date)
		if err != nil {
			if scheduling.IsCode(err, scheduling.CodeConfigurationMissing) {
				c.JSON(http.StatusOK, gin.H{
					"date":            date,
					"is_working_day":  false,
					"available_slots": []any{},
					"occupied_slots":  []any{},
					"hint":            "agenda configuration has not been initialized",
				})
				return
			}
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, day)
	}
}

// BookAppointmentHandler creates a confirmed appointment.
func BookAppointmentHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req scheduling.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		appt, err := schedSvc.BookAppointment(c.Request.Context(), req)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusCreated, appt)
	}
}

// GetAppointmentHandler fetches one appointment by id.
func GetAppointmentHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		appt, err := schedSvc.GetAppointment(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// ListAppointmentsHandler returns appointments in a time range with optional
// status and source filters.
func ListAppointmentsHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q scheduling.ListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
			return
		}

		appts, err := schedSvc.ListAppointments(c.Request.Context(), q)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
	}
}

// FindByEmailHandler returns a client's appointment history.
func FindByEmailHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		appts, err := schedSvc.FindByClientEmail(c.Request.Context(), c.Query("email"))
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
	}
}

// CancelAppointmentHandler cancels an appointment with an optional reason.
func CancelAppointmentHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Reason string `json:"reason"`
		}
		// Body is optional; a bare POST cancels without a reason.
		_ = c.ShouldBindJSON(&body)

		appt, err := schedSvc.Cancel(c.Request.Context(), c.Param("id"), body.Reason)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}

// CompleteAppointmentHandler marks a confirmed appointment as completed.
func CompleteAppointmentHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := schedSvc.MarkCompleted(c.Request.Context(), id); err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "completed"})
	}
}

// NoShowAppointmentHandler marks a confirmed appointment as a no-show.
func NoShowAppointmentHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := schedSvc.MarkNoShow(c.Request.Context(), id); err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "no_show"})
	}
}

// InitConfigHandler creates the default agenda configuration once.
func InitConfigHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, created, err := schedSvc.InitializeConfiguration(c.Request.Context())
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{"config": cfg, "created": created})
	}
}

// GetConfigHandler returns the active agenda configuration.
func GetConfigHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := schedSvc.GetConfiguration(c.Request.Context())
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

// UpdateConfigHandler patches the active agenda configuration.
func UpdateConfigHandler(schedSvc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd scheduling.ConfigUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		cfg, err := schedSvc.UpdateConfiguration(c.Request.Context(), upd)
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

// respondSchedulingError maps engine error codes onto HTTP statuses.
func respondSchedulingError(c *gin.Context, err error) {
	var se *scheduling.Error
	status := http.StatusInternalServerError
	if errors.As(err, &se) {
		switch se.Code {
		case scheduling.CodeInvalidInput:
			status = http.StatusBadRequest
		case scheduling.CodeNotFound, scheduling.CodeConfigurationMissing:
			status = http.StatusNotFound
		case scheduling.CodeSlotUnavailable, scheduling.CodeAlreadyCancelled, scheduling.CodeInvalidTransition:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": se.Message, "code": se.Code})
		return
	}
	c.JSON(status, gin.H{"error": "internal error", "details": err.Error()})
}

package handlers

import (
	chatlogRepo "agendia/database/repository/chatlog"
	ai "agendia/services/intelligence"
	"agendia/services/scheduling"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public agenda endpoints
	GetAvailabilityHandler   gin.HandlerFunc
	BookAppointmentHandler   gin.HandlerFunc
	CancelAppointmentHandler gin.HandlerFunc

	// Admin agenda endpoints
	GetAppointmentHandler      gin.HandlerFunc
	ListAppointmentsHandler    gin.HandlerFunc
	FindByEmailHandler         gin.HandlerFunc
	CompleteAppointmentHandler gin.HandlerFunc
	NoShowAppointmentHandler   gin.HandlerFunc
	InitConfigHandler          gin.HandlerFunc
	GetConfigHandler           gin.HandlerFunc
	UpdateConfigHandler        gin.HandlerFunc

	// Chat endpoints
	ChatMessageHandler gin.HandlerFunc
	ChatHistoryHandler gin.HandlerFunc

	// Auth endpoints
	AdminLoginHandler gin.HandlerFunc
}

// NewHandlerBundle wires the services into their HTTP handlers.
func NewHandlerBundle(schedSvc scheduling.SchedulingService, chatSvc ai.ChatService, chatLog chatlogRepo.ChatLogRepository) *HandlerBundle {
	return &HandlerBundle{
		GetAvailabilityHandler:   GetAvailabilityHandler(schedSvc),
		BookAppointmentHandler:   BookAppointmentHandler(schedSvc),
		CancelAppointmentHandler: CancelAppointmentHandler(schedSvc),

		GetAppointmentHandler:      GetAppointmentHandler(schedSvc),
		ListAppointmentsHandler:    ListAppointmentsHandler(schedSvc),
		FindByEmailHandler:         FindByEmailHandler(schedSvc),
		CompleteAppointmentHandler: CompleteAppointmentHandler(schedSvc),
		NoShowAppointmentHandler:   NoShowAppointmentHandler(schedSvc),
		InitConfigHandler:          InitConfigHandler(schedSvc),
		GetConfigHandler:           GetConfigHandler(schedSvc),
		UpdateConfigHandler:        UpdateConfigHandler(schedSvc),

		ChatMessageHandler: ChatMessageHandler(chatSvc),
		ChatHistoryHandler: ChatHistoryHandler(chatLog),

		AdminLoginHandler: AdminLoginHandler(),
	}
}

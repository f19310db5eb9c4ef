package routes

import (
	"net/http"
	"time"

	"agendia/handlers"
	"agendia/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAgendaRoutes registers the appointment scheduling endpoints.
func RegisterAgendaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agenda")
	{
		// Public endpoints used by the web widget and the chat assistant.
		api.GET("/availability", hb.GetAvailabilityHandler)
		api.POST("/appointments", hb.BookAppointmentHandler)
		api.POST("/appointments/:id/cancel", hb.CancelAppointmentHandler)

		// Owner-only endpoints.
		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.GET("/appointments", hb.ListAppointmentsHandler)
		admin.GET("/appointments/:id", hb.GetAppointmentHandler)
		admin.GET("/clients/appointments", hb.FindByEmailHandler)
		admin.POST("/appointments/:id/complete", hb.CompleteAppointmentHandler)
		admin.POST("/appointments/:id/no-show", hb.NoShowAppointmentHandler)
		admin.POST("/config/init", hb.InitConfigHandler)
		admin.GET("/config", hb.GetConfigHandler)
		admin.PATCH("/config", hb.UpdateConfigHandler)
	}
}

// RegisterChatRoutes registers the web chat assistant endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.POST("/message", hb.ChatMessageHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthAdminMiddleware())
		admin.GET("/history", hb.ChatHistoryHandler)
	}
}

// RegisterAuthRoutes registers the owner login endpoint.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/login", hb.AdminLoginHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Agendia"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAgendaRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
}

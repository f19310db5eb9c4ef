package handlers

import (
	"net/http"
	"strconv"

	chatlogRepo "agendia/database/repository/chatlog"
	"agendia/middleware"
	"agendia/models"
	ai "agendia/services/intelligence"

	"github.com/gin-gonic/gin"
)

// ChatMessageHandler processes one web chat message through the assistant.
func ChatMessageHandler(chatSvc ai.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		req.UserIP = middleware.GetClientIP(c)
		req.UserAgent = c.Request.UserAgent()

		resp, err := chatSvc.ProcessMessage(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ChatHistoryHandler returns the logged exchanges of one session, newest
// first.
func ChatHistoryHandler(chatLog chatlogRepo.ChatLogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id query parameter is required"})
			return
		}
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}

		msgs, err := chatLog.RecentBySession(c.Request.Context(), sessionID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
	}
}

package handlers

import (
	"net/http"
	"time"

	"agendia/config"
	"agendia/utils"

	"github.com/gin-gonic/gin"
)

const adminTokenTTL = 12 * time.Hour

// AdminLoginHandler exchanges the owner's admin key for a short-lived JWT.
func AdminLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			AdminKey string `json:"admin_key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		if config.AppConfig.AdminKey == "" || body.AdminKey != config.AppConfig.AdminKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}

		token, err := utils.GenerateAdminToken(adminTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_in": int64(adminTokenTTL.Seconds()),
		})
	}
}

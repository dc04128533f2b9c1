package controllers

import (
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetReminderLogs lists the reminder messages sent on the user's behalf,
// newest first. Optional ?status= filter (sent or failed).
func GetReminderLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.ReminderLog
	if err := query.Order("sent_at DESC").Limit(100).Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}

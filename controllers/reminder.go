package controllers

import (
	"net/http"
	"strconv"
	"time"

	"aquacare-backend/config"
	"aquacare-backend/permissions"
	"aquacare-backend/services"
	"aquacare-backend/utils"

	"github.com/gin-gonic/gin"
)

// DispatchReminders triggers one reminder batch by hand, outside the
// morning cron. Defaults to tomorrow's visits; ?date=YYYY-MM-DD targets
// another day, with past days skipped wholesale rather than sent late.
func DispatchReminders(c *gin.Context) {
	role, ok := requestRole(c)
	if !ok {
		return
	}
	if !permissions.CanCreateOrEdit(role) {
		forbidden(c)
		return
	}

	targetDate := time.Now().AddDate(0, 0, 1)
	if s := c.Query("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		targetDate = d
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	dispatcher := services.NewNotificationDispatcher(
		config.DB,
		services.NewSMTPEmailSender(),
		services.NewTwilioWhatsAppSender(),
	)

	result, err := dispatcher.DispatchReminders(targetDate, offset, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Reminder dispatch failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

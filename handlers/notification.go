package handlers

import (
	"net/http"
	"time"

	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notificationLimit = 50

// NotificationHandler lists generation jobs that finished while tracked.
type NotificationHandler struct {
	DB *gorm.DB
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetInt(middleware.KeyUserID)

	var notifications []models.BatchNotification
	if err := h.DB.Where("user_id = ? AND dismissed_at IS NULL", userID).
		Order("created_at DESC").
		Limit(notificationLimit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgServerError)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) DismissNotification(c *gin.Context) {
	locale := middleware.Locale(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(locale, i18n.MsgInvalidID)})
		return
	}

	res := h.DB.Model(&models.BatchNotification{}).
		Where("id = ? AND user_id = ? AND dismissed_at IS NULL", id, c.GetInt(middleware.KeyUserID)).
		Update("dismissed_at", time.Now())
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(locale, i18n.MsgNotFound)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": i18n.T(locale, i18n.MsgNotificationDismissed)})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dompet/internal/models"
	"dompet/internal/services"
)

// NotificationHandler exposes the derived limit notifications.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationListResponse lists the caller's live notifications.
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

func newNotificationList(list []models.Notification) NotificationListResponse {
	resp := NotificationListResponse{Notifications: list}
	for i := range list {
		if !list[i].Read {
			resp.Unread++
		}
	}
	return resp
}

// GetNotifications lists limit breaches for the current periods
// @Summary     List notifications
// @Description Recomputed from wallet limits and this period's expenses on every call
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} NotificationListResponse "Live notifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.notificationService.GetNotifications(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newNotificationList(list))
}

// MarkRead flags one notification as read
// @Summary     Mark a notification read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Marked read"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkRead(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

// MarkAllRead flags every live notification as read
// @Summary     Mark all notifications read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Marked read"
// @Router      /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "All notifications marked as read"})
}

// Dismiss hides a notification until its period rolls over
// @Summary     Dismiss a notification
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Dismissed"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id}/dismiss [post]
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.Dismiss(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification dismissed"})
}

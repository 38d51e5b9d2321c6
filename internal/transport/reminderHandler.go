package transport

import (
	"net/http"

	"github.com/ds124wfegd/campus-events/internal/service"
	"github.com/ds124wfegd/campus-events/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	reminderService service.ReminderService
}

func NewReminderHandler(reminderService service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

func (h *ReminderHandler) GetReminders(c *gin.Context) {
	list, err := h.reminderService.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ReminderHandler) GetCancelled(c *gin.Context) {
	list, err := h.reminderService.Cancelled(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ReminderHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.reminderService.UpdateSettings(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled": settings.Enabled,
		"email":   settings.Recipient(),
	})
}

func (h *ReminderHandler) Send(c *gin.Context) {
	result, err := h.reminderService.Send(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

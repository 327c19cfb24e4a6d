package api

import (
	"net/http"

	"cosysta-be/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUnreadNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	items, err := h.Notifications.ListUnread(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

type markReadRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := h.Notifications.MarkRead(ctx, id, userID, *req.IsRead); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification updated"})
}

func (h *Handler) RemoveNotification(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := h.Notifications.RemoveForUser(ctx, id, userID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification removed"})
}

type broadcastRequest struct {
	RecipientIDs []uint         `json:"recipient_ids" binding:"required,min=1"`
	Title        string         `json:"title" binding:"required"`
	Body         string         `json:"body" binding:"required"`
	Data         map[string]any `json:"data"`
}

// Broadcast is admin-only: one persisted announcement fanned out to the
// given recipients and pushed to every stored device token.
func (h *Handler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.Notifications.Broadcast(c.Request.Context(), req.RecipientIDs, req.Title, req.Body, req.Data)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "announcement sent"})
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.Notifications.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

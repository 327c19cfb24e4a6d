package api

import (
	"net/http"

	"cosysta-be/internal/subscription"

	"github.com/gin-gonic/gin"
)

func (h *Handler) StartSubscription(c *gin.Context) {
	var input subscription.StartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sub, err := h.Subscriptions.StartOrExtend(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (h *Handler) GetSubscription(c *gin.Context) {
	sub, err := h.Subscriptions.GetCurrent(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

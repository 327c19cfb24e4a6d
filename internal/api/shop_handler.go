package api

import (
	"net/http"

	"cosysta-be/internal/shop"

	"github.com/gin-gonic/gin"
)

type createShopRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Phone   *string `json:"phone"`
	City    *string `json:"city"`
	Address *string `json:"address"`
}

func (h *Handler) CreateShop(c *gin.Context) {
	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sh, err := h.Shops.CreateShop(c.Request.Context(), shop.CreateShopInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		City:    req.City,
		Address: req.Address,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shop": sh})
}

func (h *Handler) GetShop(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sh, err := h.Shops.GetShop(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shop": sh})
}

func (h *Handler) ListMyShops(c *gin.Context) {
	shops, err := h.Shops.GetMyShops(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

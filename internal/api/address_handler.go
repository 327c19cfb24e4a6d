package api

import (
	"net/http"

	"cosysta-be/internal/address"

	"github.com/gin-gonic/gin"
)

type createAddressRequest struct {
	Country      string  `json:"country" binding:"required"`
	State        string  `json:"state" binding:"required"`
	Town         string  `json:"town" binding:"required"`
	Area         string  `json:"area" binding:"required"`
	Landmark     *string `json:"landmark"`
	Pincode      string  `json:"pincode" binding:"required"`
	HouseNo      *string `json:"house_no"`
	SetAsDefault bool    `json:"set_as_default"`
}

func (h *Handler) ListAddresses(c *gin.Context) {
	addrs, err := h.Addresses.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

func (h *Handler) AddAddress(c *gin.Context) {
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	addr, err := h.Addresses.Add(c.Request.Context(), address.CreateAddressInput{
		Country:      req.Country,
		State:        req.State,
		Town:         req.Town,
		Area:         req.Area,
		Landmark:     req.Landmark,
		Pincode:      req.Pincode,
		HouseNo:      req.HouseNo,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

func (h *Handler) RemoveAddress(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.Addresses.Remove(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address removed"})
}

func (h *Handler) MakeDefaultAddress(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.Addresses.MakeDefault(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "default address updated"})
}

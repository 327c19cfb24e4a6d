package api

import (
	"net/http"
	"strconv"
	"time"

	"cosysta-be/internal/order"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
	var input order.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	o, err := h.Orders.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": o})
}

func (h *Handler) ListOrders(c *gin.Context) {
	filter := orderFilterFromQuery(c)
	sort := orderSortFromQuery(c)
	limit := int32(queryInt(c, "limit", 20))
	page := int32(queryInt(c, "page", 1))

	orders, total, err := h.Orders.GetOrders(c.Request.Context(), filter, sort, limit, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	o, err := h.Orders.GetOrderDetail(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	o, err := h.Orders.UpdateOrderStatus(c.Request.Context(), orderID, order.Status(req.Status))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": o})
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	orderID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.Orders.UpdatePaymentStatus(c.Request.Context(), orderID, order.PaymentStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment status updated"})
}

func orderFilterFromQuery(c *gin.Context) *order.FilterInput {
	filter := &order.FilterInput{}
	touched := false

	if v := c.Query("status"); v != "" {
		s := order.Status(v)
		filter.Status = &s
		touched = true
	}
	if v := c.Query("payment_status"); v != "" {
		s := order.PaymentStatus(v)
		filter.PaymentStatus = &s
		touched = true
	}
	if v := c.Query("min_total"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinTotal = &f
			touched = true
		}
	}
	if v := c.Query("max_total"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxTotal = &f
			touched = true
		}
	}
	if v := c.Query("date_from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateFrom = &ts
			touched = true
		}
	}
	if v := c.Query("date_to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.DateTo = &ts
			touched = true
		}
	}

	if !touched {
		return nil
	}
	return filter
}

func orderSortFromQuery(c *gin.Context) *order.SortInput {
	field := c.Query("sort")
	if field == "" {
		return nil
	}
	return &order.SortInput{
		Field:     order.SortField(field),
		Direction: c.DefaultQuery("dir", "DESC"),
	}
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

package api

import (
	"net/http"
	"strconv"

	"cosysta-be/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createProductRequest struct {
	ShopID         string  `json:"shop_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Description    *string `json:"description"`
	Category       string  `json:"category" binding:"required"`
	ImageURL       *string `json:"image_url"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	Quantity       float64 `json:"quantity" binding:"gte=0"`
	ProductType    string  `json:"product_type" binding:"required"`
	DeliveryOption string  `json:"delivery_option"`
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid shop_id"})
		return
	}

	p, err := h.Products.CreateProduct(c.Request.Context(), product.CreateProductInput{
		ShopID:         shopID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Price:          req.Price,
		Quantity:       req.Quantity,
		ProductType:    req.ProductType,
		DeliveryOption: req.DeliveryOption,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.Products.GetProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) ListProducts(c *gin.Context) {
	filter := productFilterFromQuery(c)
	sort := productSortFromQuery(c)
	limit := int32(queryInt(c, "limit", 20))
	page := int32(queryInt(c, "page", 1))

	products, total, err := h.Products.GetProducts(c.Request.Context(), filter, sort, limit, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func productFilterFromQuery(c *gin.Context) *product.FilterInput {
	filter := &product.FilterInput{}
	touched := false

	if v := c.Query("search"); v != "" {
		filter.Search = &v
		touched = true
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
		touched = true
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
			touched = true
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
			touched = true
		}
	}
	if v := c.Query("in_stock"); v != "" {
		b := v == "true" || v == "1"
		filter.InStock = &b
		touched = true
	}
	if v := c.Query("min_sold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinSold = &f
			touched = true
		}
	}
	if v := c.Query("shop_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.ShopID = &id
			touched = true
		}
	}

	if !touched {
		return nil
	}
	return filter
}

func productSortFromQuery(c *gin.Context) *product.SortInput {
	field := c.Query("sort")
	if field == "" {
		return nil
	}
	return &product.SortInput{
		Field:     product.SortField(field),
		Direction: c.DefaultQuery("dir", "DESC"),
	}
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"limiteds-market/internal/service"
	"limiteds-market/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	rapService     *service.RAPService
	pricingService *service.PricingService
	listingService *service.ListingService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	rapService *service.RAPService,
	pricingService *service.PricingService,
	listingService *service.ListingService,
) *Handler {
	return &Handler{
		rapService:     rapService,
		pricingService: pricingService,
		listingService: listingService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/items", h.getCatalog)
		v1.GET("/items/:id", h.getItem)
		v1.GET("/items/:id/rap", h.getRAP)
		v1.GET("/items/:id/price", h.getCurrentPrice)
		v1.GET("/items/:id/listings", h.getListings)
		v1.POST("/items/:id/resell", h.createResaleListing)
		v1.GET("/inventory", h.getInventory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// ResellRequest is the body of a resale listing request. The seller comes
// from the X-User-ID header set by the upstream gateway after auth.
type ResellRequest struct {
	Price int64 `json:"price"`
}

// getRAP handles recent average price lookups
func (h *Handler) getRAP(c *gin.Context) {
	itemID, ok := pathItemID(c)
	if !ok {
		return
	}

	rap, err := h.rapService.GetRecentAveragePrice(c.Request.Context(), itemID)
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rap": rap})
}

// getCurrentPrice handles lowest-ask lookups
func (h *Handler) getCurrentPrice(c *gin.Context) {
	itemID, ok := pathItemID(c)
	if !ok {
		return
	}

	price, err := h.pricingService.GetCurrentPrice(c.Request.Context(), itemID)
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// createResaleListing handles listing an owned unit for resale
func (h *Handler) createResaleListing(c *gin.Context) {
	itemID, ok := pathItemID(c)
	if !ok {
		return
	}

	sellerID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req ResellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid request body",
		})
		return
	}

	if err := h.listingService.CreateResaleListing(c.Request.Context(), itemID, sellerID, req.Price); err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getCatalog handles catalog listing
func (h *Handler) getCatalog(c *gin.Context) {
	items, err := h.listingService.GetCatalog(c.Request.Context())
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// getItem handles item detail lookups
func (h *Handler) getItem(c *gin.Context) {
	itemID, ok := pathItemID(c)
	if !ok {
		return
	}

	item, err := h.listingService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// getListings handles active listing lookups, price ascending
func (h *Handler) getListings(c *gin.Context) {
	itemID, ok := pathItemID(c)
	if !ok {
		return
	}

	listings, err := h.listingService.GetItemListings(c.Request.Context(), itemID)
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// getInventory handles the caller's owned-stacks lookup
func (h *Handler) getInventory(c *gin.Context) {
	ownerID, ok := sessionUserID(c)
	if !ok {
		return
	}

	inventory, err := h.listingService.GetOwnerInventory(c.Request.Context(), ownerID)
	if err != nil {
		failJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory": inventory})
}

func pathItemID(c *gin.Context) (int64, bool) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "invalid item ID",
		})
		return 0, false
	}
	return itemID, true
}

func sessionUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "missing or invalid user",
		})
		return 0, false
	}
	return userID, true
}

// failJSON maps service errors onto the {success:false, message} envelope
func failJSON(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrItemUnavailable):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "item not found or not for sale",
		})
	case errors.Is(err, service.ErrNoSaleHistory):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "item has no recorded sales",
		})
	case errors.Is(err, service.ErrInvalidAskPrice):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "price must be at least 1",
		})
	case errors.Is(err, service.ErrNotOwned):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "you do not own this item",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "internal error",
		})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

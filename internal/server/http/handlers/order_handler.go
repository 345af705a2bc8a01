package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/server/http/dto"
)

// OrderHandler serves order queries, the administrative replace and status
// transitions.
type OrderHandler struct {
	query  QueryFacade
	status StatusFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(query QueryFacade, status StatusFacade) *OrderHandler {
	return &OrderHandler{query: query, status: status}
}

// List handles POST /api/v2/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := dto.DecodeFilter(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := h.query.ListOrders(c.Request.Context(), CurrentScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles POST /api/v2/order: single order by filter.
func (h *OrderHandler) Get(c *gin.Context) {
	filter, err := dto.DecodeFilter(c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.query.GetOrder(c.Request.Context(), CurrentScope(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetByID handles GET /api/v2/order/:id.
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.query.GetOrderByID(c.Request.Context(), CurrentScope(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Set handles PUT /api/v2/order: administrative full replace.
func (h *OrderHandler) Set(c *gin.Context) {
	var order model.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	saved, err := h.query.SetOrder(c.Request.Context(), CurrentScope(c), &order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// UpdateStatus handles PUT /api/v2/order/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.status.UpdateStatus(c.Request.Context(), CurrentScope(c), req.OrderID, model.OrderStatus(req.Status), req.Override)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/server/http/dto"
	"github.com/merchkit/orderflow/internal/usecase"
)

// FulfillmentHandler serves package and RMA operations.
type FulfillmentHandler struct {
	facade FulfillmentFacade
}

// NewFulfillmentHandler creates FulfillmentHandler instance.
func NewFulfillmentHandler(facade FulfillmentFacade) *FulfillmentHandler {
	return &FulfillmentHandler{facade: facade}
}

// AddPackage handles POST /api/v2/order/pkg.
func (h *FulfillmentHandler) AddPackage(c *gin.Context) {
	var req dto.AddPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.AddPackage(c.Request.Context(), CurrentScope(c), req.OrderID, req.Allocation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DelPackage handles DELETE /api/v2/order/pkg.
func (h *FulfillmentHandler) DelPackage(c *gin.Context) {
	var req dto.DelPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.DelPackage(c.Request.Context(), CurrentScope(c), req.OrderID, req.PackageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdatePackageStatus handles PUT /api/v2/order/pkg/status.
func (h *FulfillmentHandler) UpdatePackageStatus(c *gin.Context) {
	var req dto.PackageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdatePackageStatus(c.Request.Context(), CurrentScope(c), req.OrderID, req.PackageID, model.PackageStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// RequestReturn handles POST /api/v2/order/rma.
func (h *FulfillmentHandler) RequestReturn(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.RequestReturn(c.Request.Context(), CurrentScope(c), req.OrderID, usecase.ReturnSpec{
		Items:  req.Items,
		Reason: req.Reason,
	}, req.Locale)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AdvanceReturn handles PUT /api/v2/order/rma/status.
func (h *FulfillmentHandler) AdvanceReturn(c *gin.Context) {
	var req dto.ReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.AdvanceReturn(c.Request.Context(), CurrentScope(c), req.OrderID, req.ReturnID, model.ReturnStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

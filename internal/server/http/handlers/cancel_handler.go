package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/server/http/dto"
)

// CancelHandler serves the cancellation workflow.
type CancelHandler struct {
	facade CancelFacade
}

// NewCancelHandler creates CancelHandler instance.
func NewCancelHandler(facade CancelFacade) *CancelHandler {
	return &CancelHandler{facade: facade}
}

// Cancel handles PUT /api/v2/order/cancel/:id: administrative direct
// cancellation. A policy refusal is 403 with the refusal body, not an error.
func (h *CancelHandler) Cancel(c *gin.Context) {
	order, refusal, err := h.facade.CancelOrder(c.Request.Context(), CurrentScope(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if refusal != nil {
		c.JSON(http.StatusForbidden, dto.CancelRefusalResponse{
			OrderID: refusal.OrderID,
			Status:  string(refusal.Status),
			Reason:  refusal.Reason,
		})
		return
	}
	c.JSON(http.StatusOK, order)
}

// RequestCancel handles PUT /api/v2/order/requestCancel/:id.
func (h *CancelHandler) RequestCancel(c *gin.Context) {
	requested, _, err := h.facade.CancelOrderRequest(c.Request.Context(), CurrentScope(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CancelRequestResponse{Requested: requested})
}

// Arbitrate handles PUT /api/v2/order/cancel/:id/arbitrate.
func (h *CancelHandler) Arbitrate(c *gin.Context) {
	var req dto.ArbitrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.ArbitrateCancel(c.Request.Context(), CurrentScope(c), c.Param("id"), req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

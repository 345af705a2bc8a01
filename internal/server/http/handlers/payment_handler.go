package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/server/http/dto"
	"github.com/merchkit/orderflow/internal/usecase"
)

// PaymentHandler serves payment operations.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler creates PaymentHandler instance.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Pay handles POST /api/v2/order/pay/:id.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PayOrder(c.Request.Context(), CurrentScope(c), c.Param("id"), req.Method, req.IdempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Update handles PUT /api/v2/order/payment.
func (h *PaymentHandler) Update(c *gin.Context) {
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdatePayment(c.Request.Context(), CurrentScope(c), usecase.PaymentPatch{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Result:    model.PaymentResult(req.Result),
		Reference: req.Reference,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Info handles POST /api/v2/order/payment/info.
func (h *PaymentHandler) Info(c *gin.Context) {
	var req dto.PaymentInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.InfoPayment(c.Request.Context(), CurrentScope(c), req.OrderID, req.Notify)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

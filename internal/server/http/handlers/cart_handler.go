package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/orderflow/internal/server/http/dto"
)

// CartHandler serves cart duplication.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler creates CartHandler instance.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// DuplicateToCart handles POST /api/v2/order/duplicateToCart.
func (h *CartHandler) DuplicateToCart(c *gin.Context) {
	var req dto.DuplicateToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.DuplicateItemsFromOrderToCart(c.Request.Context(), CurrentScope(c), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/server/http/middleware"
)

// CurrentScope extracts the authenticated actor scope from context.
func CurrentScope(c *gin.Context) model.ActorScope {
	val, ok := c.Get(middleware.ScopeContextKey)
	if !ok {
		return model.ActorScope{}
	}
	scope, _ := val.(model.ActorScope)
	return scope
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrForbidden):
		c.Status(http.StatusForbidden)
	case errors.Is(err, domainErrors.ErrIllegalTransition),
		errors.Is(err, domainErrors.ErrInvalidState),
		errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrDuplicatePayment):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainErrors.ErrOverAllocation),
		errors.Is(err, domainErrors.ErrUnknownFilterField):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

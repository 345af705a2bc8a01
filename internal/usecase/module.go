package usecase

import (
	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(newOrderWriter),
	fx.Provide(
		NewAuthUseCase,
		NewQueryUseCase,
		NewStatusUseCase,
		NewPaymentUseCase,
		NewCancelUseCase,
		NewFulfillmentUseCase,
		NewCartUseCase,
	),
)

type writerParams struct {
	fx.In

	Orders repository.OrderRepository
	Cache  OrderCache
	Config *config.Config
}

func newOrderWriter(p writerParams) *OrderWriter {
	return NewOrderWriter(p.Orders, p.Cache, p.Config.UpdateRetries)
}

package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
	"github.com/merchkit/orderflow/internal/usecase"
)

// Module exposes the payment gateway client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.PaymentGateway, error) {
	return NewHTTPClient(p.Config.GatewayAddress, p.Logger)
}

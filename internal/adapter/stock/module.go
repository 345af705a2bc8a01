package stock

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
)

// Module exposes the stock client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.StockAddress == "" {
		p.Logger.Info("stock releases disabled, no stock address configured")
		return NoopClient{}, nil
	}
	return NewHTTPClient(p.Config.StockAddress, p.Logger)
}

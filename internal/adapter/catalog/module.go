package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
	"github.com/merchkit/orderflow/internal/usecase"
)

// Module exposes the catalog client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.Catalog, error) {
	if p.Config.CatalogAddress == "" {
		p.Logger.Info("catalog lookups disabled, no catalog address configured")
		return UnavailableClient{}, nil
	}
	return NewHTTPClient(p.Config.CatalogAddress, p.Logger)
}

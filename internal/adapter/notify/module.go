package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
)

// Module exposes the notification client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	if p.Config.NotifyAddress == "" {
		p.Logger.Info("notifications disabled, no notify address configured")
		return NoopClient{}, nil
	}
	return NewHTTPClient(p.Config.NotifyAddress, p.Logger)
}

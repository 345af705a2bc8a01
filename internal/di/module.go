package di

import (
	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/adapter/catalog"
	"github.com/merchkit/orderflow/internal/adapter/gateway"
	"github.com/merchkit/orderflow/internal/adapter/notify"
	"github.com/merchkit/orderflow/internal/adapter/stock"
	"github.com/merchkit/orderflow/internal/app"
	"github.com/merchkit/orderflow/internal/config"
	"github.com/merchkit/orderflow/internal/logger"
	"github.com/merchkit/orderflow/internal/pkg/auth"
	"github.com/merchkit/orderflow/internal/server/http/handlers"
	"github.com/merchkit/orderflow/internal/server/http/router"
	"github.com/merchkit/orderflow/internal/storage/postgres"
	"github.com/merchkit/orderflow/internal/storage/rediscache"
	"github.com/merchkit/orderflow/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		rediscache.Module,
		gateway.Module,
		notify.Module,
		stock.Module,
		catalog.Module,
		usecase.Module,
		fx.Provide(func(f *app.OrderFacade) handlers.OrderFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

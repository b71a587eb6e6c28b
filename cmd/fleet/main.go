package main

import (
	"context"
	"log/slog"
	"os"

	"fleet/config"
	"fleet/internal/delivery"
	"fleet/internal/delivery/http"
	"fleet/internal/delivery/http/middleware"
	"fleet/internal/delivery/http/router/handler"
	"fleet/internal/infra/auth"
	logs "fleet/internal/infra/log"
	"fleet/internal/infra/persistence/postgres"
	"fleet/internal/realtime"
	"fleet/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewOrderRepository,
			postgres.NewDeliveryRepository,
			postgres.NewDriverRepository,
			postgres.NewCustomerRepository,
			postgres.NewDeviceRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			realtime.NewHub,
			newPublisher,
			realtime.NewAuthorizer,
		),
	)
}

// newPublisher exposes the hub behind the publishing interface the
// usecases depend on.
func newPublisher(hub *realtime.Hub) realtime.Publisher {
	return hub
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewTrackingService,
			impl.NewOrderService,
			impl.NewDispatchService,
			impl.NewIdentityService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewOrderHandler,
			handler.NewDeliveryHandler,
			handler.NewDeviceHandler,
			handler.NewRealtimeHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

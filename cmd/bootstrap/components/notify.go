package components

import (
	"context"
	"log/slog"

	"jobfair-booking/internal/infra/repository"
	"jobfair-booking/internal/notify"
	"jobfair-booking/internal/pkg/clock"
	"jobfair-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		fx.Annotate(
			notify.NewLogSender,
			fx.As(new(notify.Sender)),
		),
		NewDispatcher,
	),
	fx.Invoke(runDispatcher),
)

func NewDispatcher(
	repo *repository.NotificationRepository,
	sender notify.Sender,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *notify.Dispatcher {
	return notify.NewDispatcher(repo, sender, clk, cfg.Notify, logger)
}

func runDispatcher(lc fx.Lifecycle, d *notify.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
}

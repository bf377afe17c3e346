package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"resihub/internal/pkg/config"
	"resihub/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper schedules the expired-booking sweep for the lifetime of the
// process. Missing a run is harmless, the next one picks the bookings up.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, lifecycle commands.LifecycleCommands) error {
	c := cron.New()
	spec := fmt.Sprintf("@every %s", cfg.Booking.SweepInterval)

	_, err := c.AddFunc(spec, func() {
		count, err := lifecycle.SweepExpired(context.Background())
		if err != nil {
			slog.Error("booking sweep failed", "error", err.Error())
			return
		}
		if count > 0 {
			slog.Info("expired bookings swept", "count", count)
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

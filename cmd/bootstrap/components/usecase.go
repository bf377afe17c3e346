package components

import (
	"resihub/internal/domain/booking"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/config"
	"resihub/internal/usecase/commands"
	"resihub/internal/usecase/queries"
	"resihub/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	booking.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		commands.NewPaymentUseCase,
		NewLifecycleCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
		queries.NewPaymentQueries,
	),
)

func NewLifecycleCommands(u shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.LifecycleCommands {
	return commands.NewLifecycleUseCase(u, clk, cfg.Booking.SweepBatch)
}

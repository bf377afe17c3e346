package components

import (
	"resihub/internal/infra/db"
	"resihub/internal/infra/readstore"
	"resihub/internal/infra/uow"
	"resihub/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewAmenityReadStore,
			fx.As(new(queries.AmenityViewRepo)),
		),
		fx.Annotate(
			readstore.NewSlotWindowReadStore,
			fx.As(new(queries.SlotWindowViewRepo)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

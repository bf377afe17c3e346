package queries

import (
	"context"
	"time"

	"resihub/internal/domain/amenity"
	"resihub/internal/pkg/errs"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrAmenityNotBookable = errs.New("amenity is not bookable")

type AvailabilityQueries interface {
	DayGrid(ctx context.Context, amenityID uuid.UUID, date time.Time) ([]SlotView, error)
}

type AmenityViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.AmenitySnapshot, error)
}

type SlotWindowViewRepo interface {
	RemainingByStart(ctx context.Context, amenityID uuid.UUID, from, to time.Time) (map[time.Time]int32, error)
}

type availabilityQueriesImpl struct {
	amenities AmenityViewRepo
	windows   SlotWindowViewRepo
}

func NewAvailabilityQueries(amenities AmenityViewRepo, windows SlotWindowViewRepo) AvailabilityQueries {
	return &availabilityQueriesImpl{amenities: amenities, windows: windows}
}

// DayGrid synthesizes the daily grid from the amenity definition and lays
// the ledger on top. Only windows someone has reserved have a ledger row;
// everything else reports full capacity.
func (q *availabilityQueriesImpl) DayGrid(ctx context.Context, amenityID uuid.UUID, date time.Time) ([]SlotView, error) {
	snap, err := q.amenities.FindByID(ctx, amenityID)
	if err != nil {
		return nil, err
	}
	if !snap.Active {
		return nil, ErrAmenityNotBookable
	}
	def, err := amenity.NewDefinition(snap.ID, snap.Name, snap.OpenMinute, snap.CloseMinute, snap.SlotMinutes, snap.Capacity, snap.UnitPrice, snap.Active)
	if err != nil {
		return nil, errs.Wrap(err, "stored amenity definition is invalid")
	}

	grid := def.DayGrid(date)
	if len(grid) == 0 {
		return []SlotView{}, nil
	}

	remaining, err := q.windows.RemainingByStart(ctx, amenityID, grid[0].Start, grid[len(grid)-1].End)
	if err != nil {
		return nil, err
	}

	views := make([]SlotView, 0, len(grid))
	for _, w := range grid {
		rem := def.Capacity()
		if r, ok := remaining[w.Start.UTC()]; ok {
			rem = r
		}
		views = append(views, SlotView{
			Start:     w.Start,
			End:       w.End,
			Remaining: rem,
			Available: rem > 0,
		})
	}
	return views, nil
}

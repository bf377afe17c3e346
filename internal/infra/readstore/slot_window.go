package readstore

import (
	"context"
	"time"

	"resihub/internal/infra"
	"resihub/internal/infra/db"

	"github.com/google/uuid"
)

type SlotWindowReadStore struct {
	dbtx db.DBTX
}

func NewSlotWindowReadStore(dbtx db.DBTX) *SlotWindowReadStore {
	return &SlotWindowReadStore{dbtx: dbtx}
}

const windowsForRangeSQL = `
SELECT start_at, remaining
FROM slot_windows
WHERE amenity_id = $1 AND start_at >= $2 AND start_at < $3`

// RemainingByStart returns the recorded remaining capacity for every slot
// window of the amenity whose start falls in [from, to). Windows that were
// never touched by a reservation have no row and are absent from the map.
func (r *SlotWindowReadStore) RemainingByStart(ctx context.Context, amenityID uuid.UUID, from, to time.Time) (map[time.Time]int32, error) {
	rows, err := r.dbtx.Query(ctx, windowsForRangeSQL, amenityID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slot windows", err)
	}
	defer rows.Close()

	remaining := make(map[time.Time]int32)
	for rows.Next() {
		var start time.Time
		var rem int32
		if err := rows.Scan(&start, &rem); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot window", err)
		}
		remaining[start.UTC()] = rem
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot windows", err)
	}
	return remaining, nil
}

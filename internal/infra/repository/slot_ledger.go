package repository

import (
	"context"
	"time"

	"resihub/internal/infra"
	"resihub/internal/infra/db"

	"github.com/google/uuid"
)

// SlotLedgerRepository owns the slot_windows rows: one row per
// (amenity, window), created lazily on the first reservation attempt and
// never deleted. All mutation happens on the caller's transaction so the
// row lock taken by the upsert serializes racing reservations for the same
// window.
type SlotLedgerRepository struct {
	dbtx db.DBTX
}

func NewSlotLedgerRepository(dbtx db.DBTX) *SlotLedgerRepository {
	return &SlotLedgerRepository{dbtx: dbtx}
}

const reserveOneSQL = `
INSERT INTO slot_windows (amenity_id, start_at, end_at, remaining)
VALUES ($1, $2, $3, $4 - 1)
ON CONFLICT (amenity_id, start_at) DO UPDATE
SET remaining = slot_windows.remaining - 1
WHERE slot_windows.remaining > 0
RETURNING remaining`

// ReserveOne decrements a window in a single statement. The conditional
// upsert returns no row when the window exists with zero remaining; that is
// the exhaustion signal, reported as a CONFLICT kind so the usecase can
// abort the whole reservation.
func (r *SlotLedgerRepository) ReserveOne(ctx context.Context, amenityID uuid.UUID, start, end time.Time, capacity int32) error {
	var remaining int32
	err := r.dbtx.QueryRow(ctx, reserveOneSQL, amenityID, start, end, capacity).Scan(&remaining)
	if err != nil {
		if db.IsNoRows(err) {
			return infra.WrapRepoErr("slot window exhausted", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to reserve slot window", err)
	}
	return nil
}

const releaseOneSQL = `
UPDATE slot_windows
SET remaining = remaining + 1
WHERE amenity_id = $1 AND start_at = $2`

// ReleaseOne compensates a prior ReserveOne. Releases are always paired
// with reservations, so remaining stays bounded by the amenity capacity.
func (r *SlotLedgerRepository) ReleaseOne(ctx context.Context, amenityID uuid.UUID, start time.Time) error {
	tag, err := r.dbtx.Exec(ctx, releaseOneSQL, amenityID, start)
	if err != nil {
		return infra.WrapRepoErr("failed to release slot window", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot window missing on release", nil, infra.KindNotFound)
	}
	return nil
}

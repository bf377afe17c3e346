package readstore

import (
	"context"

	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

type AmenityReadStore struct {
	dbtx db.DBTX
}

func NewAmenityReadStore(dbtx db.DBTX) *AmenityReadStore {
	return &AmenityReadStore{dbtx: dbtx}
}

const findAmenityByIDSQL = `
SELECT id, name, open_minute, close_minute, slot_minutes, capacity, unit_price, is_active
FROM amenities
WHERE id = $1`

func (r *AmenityReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.AmenitySnapshot, error) {
	var snap shared.AmenitySnapshot
	err := r.dbtx.QueryRow(ctx, findAmenityByIDSQL, id).Scan(
		&snap.ID, &snap.Name, &snap.OpenMinute, &snap.CloseMinute,
		&snap.SlotMinutes, &snap.Capacity, &snap.UnitPrice, &snap.Active,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("amenity not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find amenity", err)
	}
	return &snap, nil
}

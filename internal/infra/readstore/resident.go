package readstore

import (
	"context"

	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

// ResidentReadStore reads the resident mirror maintained by the identity
// service. This service never writes residents.
type ResidentReadStore struct {
	dbtx db.DBTX
}

func NewResidentReadStore(dbtx db.DBTX) *ResidentReadStore {
	return &ResidentReadStore{dbtx: dbtx}
}

const findResidentByIDSQL = `
SELECT id, email, is_active
FROM residents
WHERE id = $1`

func (r *ResidentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.ResidentSnapshot, error) {
	var snap shared.ResidentSnapshot
	err := r.dbtx.QueryRow(ctx, findResidentByIDSQL, id).Scan(&snap.ID, &snap.Email, &snap.Active)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resident not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resident", err)
	}
	return &snap, nil
}

package readstore

import (
	"context"

	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

type InvoiceReadStore struct {
	dbtx db.DBTX
}

func NewInvoiceReadStore(dbtx db.DBTX) *InvoiceReadStore {
	return &InvoiceReadStore{dbtx: dbtx}
}

const getInvoiceSQL = `
SELECT id, resident_id, amount, status
FROM invoices
WHERE id = $1`

func (r *InvoiceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.InvoiceSnapshot, error) {
	var snap shared.InvoiceSnapshot
	err := r.dbtx.QueryRow(ctx, getInvoiceSQL, id).Scan(&snap.ID, &snap.ResidentID, &snap.Amount, &snap.Status)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find invoice", err)
	}
	return &snap, nil
}

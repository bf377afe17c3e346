package repository

import (
	"context"

	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

// InvoiceRepository touches the invoice table only as a payment target:
// invoice lifecycle itself belongs to the billing service.
type InvoiceRepository struct {
	dbtx db.DBTX
}

func NewInvoiceRepository(dbtx db.DBTX) *InvoiceRepository {
	return &InvoiceRepository{dbtx: dbtx}
}

const findInvoiceForUpdateSQL = `
SELECT id, resident_id, amount, status
FROM invoices
WHERE id = $1
FOR UPDATE`

func (r *InvoiceRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*shared.InvoiceSnapshot, error) {
	var snap shared.InvoiceSnapshot
	err := r.dbtx.QueryRow(ctx, findInvoiceForUpdateSQL, id).Scan(&snap.ID, &snap.ResidentID, &snap.Amount, &snap.Status)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find invoice", err)
	}
	return &snap, nil
}

const setInvoicePaidSQL = `
UPDATE invoices
SET status = 'PAID', updated_at = now()
WHERE id = $1 AND status <> 'PAID'`

// SetPaid is idempotent for the same reason the booking propagation is:
// replayed webhooks must not double-apply.
func (r *InvoiceRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	if _, err := r.dbtx.Exec(ctx, setInvoicePaidSQL, id); err != nil {
		return infra.WrapRepoErr("failed to propagate payment to invoice", err)
	}
	return nil
}

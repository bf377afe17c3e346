package readstore

import (
	"context"

	"resihub/internal/domain/payment"
	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentReadStore struct {
	dbtx db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{dbtx: dbtx}
}

const getPaymentViewSQL = `
SELECT id, txn_ref, target_type, target_id, payer_id, amount, currency, gateway, status,
	payment_url, gateway_txn_id, gateway_response_code, expires_at, retry_count, pay_date, created_at
FROM payment_transactions
WHERE id = $1`

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	var view queries.PaymentView
	err := r.dbtx.QueryRow(ctx, getPaymentViewSQL, id).Scan(
		&view.ID, &view.TxnRef, &view.TargetType, &view.TargetID, &view.PayerID,
		&view.Amount, &view.Currency, &view.Gateway, &view.Status,
		&view.PaymentURL, &view.GatewayTxnID, &view.ResponseCode,
		&view.ExpiresAt, &view.RetryCount, &view.PayDate, &view.CreatedAt,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment transaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment transaction", err)
	}
	return &view, nil
}

const hasSuccessfulPaymentSQL = `
SELECT EXISTS (
	SELECT 1 FROM payment_transactions
	WHERE target_type = $1 AND target_id = $2 AND status = 'SUCCESS'
)`

func (r *PaymentReadStore) HasSuccessfulPayment(ctx context.Context, target payment.Target) (bool, error) {
	var exists bool
	if err := r.dbtx.QueryRow(ctx, hasSuccessfulPaymentSQL, string(target.Type), target.ID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check successful payments", err)
	}
	return exists, nil
}

const countPaymentsForTargetSQL = `
SELECT count(*)
FROM payment_transactions
WHERE target_type = $1 AND target_id = $2`

// CountPaymentsForTarget feeds the retry counter on a fresh attempt.
func (r *PaymentReadStore) CountPaymentsForTarget(ctx context.Context, target payment.Target) (int32, error) {
	var count int32
	if err := r.dbtx.QueryRow(ctx, countPaymentsForTargetSQL, string(target.Type), target.ID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count payments for target", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"time"

	"resihub/internal/domain/payment"
	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	dbtx db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{dbtx: dbtx}
}

const createPaymentSQL = `
INSERT INTO payment_transactions
	(id, txn_ref, target_type, target_id, payer_id, amount, currency, gateway, status, expires_at, retry_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (r *PaymentRepository) Create(ctx context.Context, t *payment.Transaction) error {
	_, err := r.dbtx.Exec(ctx, createPaymentSQL,
		t.ID(), t.TxnRef(), string(t.Target().Type), t.Target().ID, t.PayerID(),
		t.Amount(), t.Currency(), t.Gateway().String(), t.Status().String(),
		t.ExpiresAt(), t.RetryCount(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment transaction", err)
	}
	return nil
}

const setPaymentURLSQL = `
UPDATE payment_transactions
SET payment_url = $2, updated_at = now()
WHERE id = $1`

func (r *PaymentRepository) SetPaymentURL(ctx context.Context, id uuid.UUID, url string) error {
	if _, err := r.dbtx.Exec(ctx, setPaymentURLSQL, id, url); err != nil {
		return infra.WrapRepoErr("failed to store payment url", err)
	}
	return nil
}

const markPaymentFailedSQL = `
UPDATE payment_transactions
SET status = 'FAILED', updated_at = now()
WHERE id = $1 AND status = 'PENDING'`

// MarkFailed keeps the row for audit; a retry creates a new transaction.
func (r *PaymentRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if _, err := r.dbtx.Exec(ctx, markPaymentFailedSQL, id); err != nil {
		return infra.WrapRepoErr("failed to mark payment failed", err)
	}
	return nil
}

const findByTxnRefForUpdateSQL = `
SELECT id, txn_ref, target_type, target_id, payer_id, amount, currency, gateway, status,
	gateway_txn_id, gateway_response_code, payment_url, expires_at, retry_count, pay_date
FROM payment_transactions
WHERE txn_ref = $1
FOR UPDATE`

func (r *PaymentRepository) FindByTxnRefForUpdate(ctx context.Context, txnRef string) (*shared.PaymentSnapshot, error) {
	var (
		snap       shared.PaymentSnapshot
		targetType string
		gateway    string
		status     string
	)
	err := r.dbtx.QueryRow(ctx, findByTxnRefForUpdateSQL, txnRef).Scan(
		&snap.ID, &snap.TxnRef, &targetType, &snap.Target.ID, &snap.PayerID,
		&snap.Amount, &snap.Currency, &gateway, &status,
		&snap.GatewayTxnID, &snap.ResponseCode, &snap.PaymentURL,
		&snap.ExpiresAt, &snap.RetryCount, &snap.PayDate,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment transaction not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment transaction", err)
	}
	snap.Target.Type = payment.TargetType(targetType)
	snap.Gateway = payment.GatewayKind(gateway)
	snap.Status = payment.Status(status)
	return &snap, nil
}

const recordGatewayResultSQL = `
UPDATE payment_transactions
SET gateway_txn_id = $2, gateway_response_code = $3, raw_gateway_log = $4, updated_at = now()
WHERE id = $1`

// RecordGatewayResult stores the provider's identifiers and the raw payload
// for audit before any status transition happens.
func (r *PaymentRepository) RecordGatewayResult(ctx context.Context, id uuid.UUID, gatewayTxnID, responseCode string, rawLog []byte) error {
	if _, err := r.dbtx.Exec(ctx, recordGatewayResultSQL, id, gatewayTxnID, responseCode, rawLog); err != nil {
		return infra.WrapRepoErr("failed to record gateway result", err)
	}
	return nil
}

const markPaymentSucceededSQL = `
UPDATE payment_transactions
SET status = 'SUCCESS', pay_date = $2, updated_at = now()
WHERE id = $1 AND status = 'PENDING'`

func (r *PaymentRepository) MarkSucceeded(ctx context.Context, id uuid.UUID, payDate time.Time) error {
	tag, err := r.dbtx.Exec(ctx, markPaymentSucceededSQL, id, payDate)
	if err != nil {
		return infra.WrapRepoErr("failed to mark payment succeeded", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment transaction is not pending", nil, infra.KindConflict)
	}
	return nil
}

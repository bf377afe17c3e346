package commands

import (
	"context"
	"encoding/json"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/domain/payment"
	"resihub/internal/infra"
	"resihub/internal/infra/gateway"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/errs"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedGateway  = errs.New("unsupported payment gateway")
	ErrGatewayUnavailable  = errs.New("payment gateway unavailable")
	ErrTargetNotFound      = errs.New("payment target not found")
	ErrTargetNotPayable    = errs.New("payment target is not payable")
	ErrAlreadyPaid         = errs.New("payment target already paid")
	ErrTargetNotOwned      = errs.New("payment target belongs to another resident")
	ErrSignatureInvalid    = errs.New("webhook signature verification failed")
	ErrTransactionNotFound = errs.New("payment transaction not found")
)

type CreatePaymentRequest struct {
	TargetType payment.TargetType
	TargetID   uuid.UUID
	Gateway    payment.GatewayKind
}

type CreatePaymentResult struct {
	TransactionID uuid.UUID
	TxnRef        string
	PaymentURL    string
	Amount        int64
	ExpiresAt     time.Time
}

type PaymentCommands interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest, payerID uuid.UUID) (*CreatePaymentResult, error)
	HandleWebhook(ctx context.Context, kind payment.GatewayKind, payload map[string]string) error
}

type paymentUseCaseImpl struct {
	uow      shared.UnitOfWork
	gateways *gateway.Registry
	clock    clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, gateways *gateway.Registry, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, gateways: gateways, clock: clk}
}

// CreatePayment opens one attempt against a booking or invoice: a PENDING
// transaction is committed first, then the gateway is asked for a redirect
// URL. A failed gateway call marks the committed transaction FAILED and
// keeps it for audit; the caller may retry, producing a fresh attempt with
// an incremented retry count.
func (uc *paymentUseCaseImpl) CreatePayment(ctx context.Context, req CreatePaymentRequest, payerID uuid.UUID) (*CreatePaymentResult, error) {
	gw, err := uc.gateways.Get(req.Gateway)
	if err != nil || req.Gateway == payment.GatewayDirect {
		return nil, ErrUnsupportedGateway
	}
	if !gw.Available() {
		return nil, ErrGatewayUnavailable
	}

	target := payment.Target{Type: req.TargetType, ID: req.TargetID}

	var txn *payment.Transaction
	var orderInfo string
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		amount, info, derr := uc.resolveTarget(ctx, tx, target, payerID)
		if derr != nil {
			return derr
		}
		orderInfo = info

		paid, derr := tx.Reads().HasSuccessfulPayment(ctx, target)
		if derr != nil {
			return derr
		}
		if paid {
			return ErrAlreadyPaid
		}

		prior, derr := tx.Reads().CountPaymentsForTarget(ctx, target)
		if derr != nil {
			return derr
		}

		txn = payment.NewTransaction(target, payerID, amount, req.Gateway, prior, uc.clock.Now())
		return tx.Payments().Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	payURL, err := gw.CreatePayment(ctx, gateway.CreatePaymentInput{
		TxnRef:    txn.TxnRef(),
		Amount:    txn.Amount(),
		OrderInfo: orderInfo,
	})
	if err != nil {
		markErr := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Payments().MarkFailed(ctx, txn.ID())
		})
		if markErr != nil {
			return nil, errs.Wrap(markErr, "failed to mark transaction failed after gateway error")
		}
		return nil, errs.Mark(err, ErrGatewayUnavailable)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Payments().SetPaymentURL(ctx, txn.ID(), payURL)
	})
	if err != nil {
		return nil, err
	}

	return &CreatePaymentResult{
		TransactionID: txn.ID(),
		TxnRef:        txn.TxnRef(),
		PaymentURL:    payURL,
		Amount:        txn.Amount(),
		ExpiresAt:     txn.ExpiresAt(),
	}, nil
}

// HandleWebhook reconciles one gateway delivery. Signature failure and
// unknown order references are surfaced as errors so the gateway retries;
// a verified but declined payment is recorded FAILED and acknowledged.
// Replays of an already settled transaction acknowledge without touching
// state, so pay_date survives and the target is never propagated twice.
func (uc *paymentUseCaseImpl) HandleWebhook(ctx context.Context, kind payment.GatewayKind, payload map[string]string) error {
	gw, err := uc.gateways.Get(kind)
	if err != nil {
		return ErrUnsupportedGateway
	}
	if !gw.VerifySignature(payload) {
		return ErrSignatureInvalid
	}
	result := gw.ParseResult(payload)

	rawLog, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode webhook payload")
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Payments().FindByTxnRefForUpdate(ctx, result.OrderRef)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return errs.Mark(derr, ErrTransactionNotFound)
			}
			return derr
		}

		if derr = tx.Payments().RecordGatewayResult(ctx, snap.ID, result.TransactionID, result.ResponseCode, rawLog); derr != nil {
			return derr
		}

		if snap.Status != payment.StatusPending {
			return nil
		}

		if !result.Succeeded {
			return tx.Payments().MarkFailed(ctx, snap.ID)
		}

		payDate := result.PaidAt
		if payDate.IsZero() {
			payDate = uc.clock.Now()
		}
		if derr = tx.Payments().MarkSucceeded(ctx, snap.ID, payDate); derr != nil {
			return derr
		}

		switch snap.Target.Type {
		case payment.TargetBooking:
			return tx.Bookings().SetPaidFromPayment(ctx, snap.Target.ID)
		case payment.TargetInvoice:
			return tx.Invoices().SetPaid(ctx, snap.Target.ID)
		default:
			return errs.Mark(payment.ErrUnknownTargetType, ErrTargetNotFound)
		}
	})
}

// resolveTarget loads the booking or invoice being paid and answers the
// amount owed plus a human-readable order description.
func (uc *paymentUseCaseImpl) resolveTarget(ctx context.Context, tx shared.Tx, target payment.Target, payerID uuid.UUID) (int64, string, error) {
	switch target.Type {
	case payment.TargetBooking:
		b, err := tx.Reads().BookingByID(ctx, target.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return 0, "", errs.Mark(err, ErrTargetNotFound)
			}
			return 0, "", err
		}
		if b.ResidentID != payerID {
			return 0, "", ErrTargetNotOwned
		}
		switch b.Status {
		case booking.StatusPending:
			return b.TotalPrice, "Amenity booking " + b.Code, nil
		case booking.StatusPaid, booking.StatusCompleted:
			return 0, "", ErrAlreadyPaid
		default:
			return 0, "", ErrTargetNotPayable
		}
	case payment.TargetInvoice:
		inv, err := tx.Reads().InvoiceByID(ctx, target.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return 0, "", errs.Mark(err, ErrTargetNotFound)
			}
			return 0, "", err
		}
		if inv.ResidentID != payerID {
			return 0, "", ErrTargetNotOwned
		}
		if inv.Status == "PAID" {
			return 0, "", ErrAlreadyPaid
		}
		return inv.Amount, "Invoice " + inv.ID.String(), nil
	default:
		return 0, "", errs.Mark(payment.ErrUnknownTargetType, ErrTargetNotFound)
	}
}

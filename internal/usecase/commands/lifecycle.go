package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/domain/payment"
	"resihub/internal/infra"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/errs"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errs.New("booking not found")
	ErrBookingNotPending = errs.New("booking is not pending")
	ErrBookingNotOwned   = errs.New("booking belongs to another resident")
	ErrBookingExpired    = errs.New("payment window expired")
)

const defaultSweepBatch = 200

type LifecycleCommands interface {
	MarkPaid(ctx context.Context, bookingID, residentID uuid.UUID) error
	SweepExpired(ctx context.Context) (int, error)
}

type lifecycleUseCaseImpl struct {
	uow        shared.UnitOfWork
	clock      clock.Clock
	sweepBatch int
}

func NewLifecycleUseCase(uow shared.UnitOfWork, clk clock.Clock, sweepBatch int) LifecycleCommands {
	if sweepBatch <= 0 {
		sweepBatch = defaultSweepBatch
	}
	return &lifecycleUseCaseImpl{uow: uow, clock: clk, sweepBatch: sweepBatch}
}

// MarkPaid settles a booking directly, the staff-assisted flow with no
// gateway round-trip. A booking found past its hold deadline is expired on
// the spot, windows released, and the caller gets a distinct expiry error.
func (uc *lifecycleUseCaseImpl) MarkPaid(ctx context.Context, bookingID, residentID uuid.UUID) error {
	now := uc.clock.Now()
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := uc.loadForUpdate(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}

		if b.HoldExpired(now) {
			if derr = uc.expireLocked(ctx, tx, b); derr != nil {
				return derr
			}
			return ErrBookingExpired
		}

		if derr = b.MarkPaid(residentID, now); derr != nil {
			switch {
			case errors.Is(derr, booking.ErrWrongResident):
				return errs.Mark(derr, ErrBookingNotOwned)
			case errors.Is(derr, booking.ErrHoldExpired):
				return errs.Mark(derr, ErrBookingExpired)
			default:
				return errs.Mark(derr, ErrBookingNotPending)
			}
		}

		if derr = tx.Bookings().SetPaid(ctx, b.ID()); derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return errs.Mark(derr, ErrBookingNotPending)
			}
			return derr
		}

		return uc.recordDirectPayment(ctx, tx, b, residentID)
	})
}

// SweepExpired expires every PENDING booking whose hold deadline has
// passed. Each booking gets its own transaction with a fresh FOR UPDATE
// check, so a payment that lands mid-sweep is never reverted. Per-booking
// failures are logged and skipped; the sweep keeps going.
func (uc *lifecycleUseCaseImpl) SweepExpired(ctx context.Context) (int, error) {
	now := uc.clock.Now()
	ids, err := uc.uow.CommandReads().ExpiredPendingBookings(ctx, now, uc.sweepBatch)
	if err != nil {
		return 0, errs.Wrap(err, "failed to list expired bookings")
	}

	expired := 0
	for _, id := range ids {
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			b, derr := uc.loadForUpdate(ctx, tx, id)
			if derr != nil {
				return derr
			}
			if !b.HoldExpired(now) {
				// Paid or already swept between the scan and this lock.
				return nil
			}
			if derr = uc.expireLocked(ctx, tx, b); derr != nil {
				return derr
			}
			expired++
			return nil
		})
		if err != nil {
			slog.Warn("failed to expire booking, skipping",
				"booking_id", id.String(),
				"error", err.Error())
		}
	}
	return expired, nil
}

func (uc *lifecycleUseCaseImpl) loadForUpdate(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	snap, err := tx.Bookings().FindForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, err
	}
	windows, err := tx.Bookings().Windows(ctx, id)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		snap.ID, snap.Code, snap.ResidentID, snap.AmenityID, snap.BookingDate,
		windows, snap.UnitPrice, snap.TotalPrice, snap.Status, snap.ExpiresAt,
		time.Time{}, time.Time{},
	), nil
}

// expireLocked transitions a held booking to EXPIRED and gives every
// reserved window back to the ledger, all inside the caller's transaction.
func (uc *lifecycleUseCaseImpl) expireLocked(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if err := tx.Bookings().SetExpired(ctx, b.ID()); err != nil {
		return err
	}
	for _, w := range b.Windows() {
		if err := tx.Slots().ReleaseOne(ctx, b.AmenityID(), w.Start()); err != nil {
			return err
		}
	}
	return nil
}

func (uc *lifecycleUseCaseImpl) recordDirectPayment(ctx context.Context, tx shared.Tx, b *booking.Booking, residentID uuid.UUID) error {
	target := payment.Target{Type: payment.TargetBooking, ID: b.ID()}
	prior, err := tx.Reads().CountPaymentsForTarget(ctx, target)
	if err != nil {
		return err
	}
	now := uc.clock.Now()
	txn := payment.NewTransaction(target, residentID, b.TotalPrice(), payment.GatewayDirect, prior, now)
	if err := tx.Payments().Create(ctx, txn); err != nil {
		return err
	}
	return tx.Payments().MarkSucceeded(ctx, txn.ID(), now)
}

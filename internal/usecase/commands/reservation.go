package commands

import (
	"context"
	"fmt"
	"time"

	"resihub/internal/domain/amenity"
	"resihub/internal/domain/booking"
	"resihub/internal/infra"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/errs"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResidentNotFound = errs.New("resident not found")
	ErrResidentInactive = errs.New("resident is inactive")
	ErrAmenityNotFound  = errs.New("amenity not found")
	ErrAmenityInactive  = errs.New("amenity is inactive")
	ErrSlotUnavailable  = errs.New("slot window unavailable")
	ErrDomainValidation = errs.New("domain validation error")
)

// SlotUnavailableError reports exactly which window lacked capacity so the
// client can retry with a different slot.
type SlotUnavailableError struct {
	Start time.Time
	End   time.Time
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("no capacity left for window %s/%s",
		e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339))
}

func (e *SlotUnavailableError) Is(target error) bool {
	return target == ErrSlotUnavailable
}

type WindowInput struct {
	Start time.Time
	End   time.Time
}

type ReserveRequest struct {
	AmenityID   uuid.UUID
	BookingDate time.Time
	Windows     []WindowInput
}

type ReserveResult struct {
	BookingID  uuid.UUID
	Code       string
	TotalPrice int64
	ExpiresAt  time.Time
}

type ReservationCommands interface {
	Reserve(ctx context.Context, req ReserveRequest, residentID uuid.UUID) (*ReserveResult, error)
}

type reservationUseCaseImpl struct {
	uow     shared.UnitOfWork
	factory *booking.Factory
	clock   clock.Clock
}

func NewReservationUseCase(uow shared.UnitOfWork, factory *booking.Factory, clk clock.Clock) ReservationCommands {
	return &reservationUseCaseImpl{uow: uow, factory: factory, clock: clk}
}

// Reserve locks one ledger row per requested window and creates the PENDING
// booking in the same transaction. A mid-operation conflict rolls back every
// decrement made so far, so a multi-window request is all-or-nothing.
func (uc *reservationUseCaseImpl) Reserve(ctx context.Context, req ReserveRequest, residentID uuid.UUID) (*ReserveResult, error) {
	windows := make([]booking.TimeWindow, 0, len(req.Windows))
	for _, in := range req.Windows {
		w, err := booking.NewTimeWindow(in.Start, in.End)
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
		windows = append(windows, w)
	}
	windows, err := booking.NormalizeWindows(windows)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var result *ReserveResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		resident, derr := tx.Reads().ResidentByID(ctx, residentID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return errs.Mark(derr, ErrResidentNotFound)
			}
			return derr
		}
		if !resident.Active {
			return ErrResidentInactive
		}

		def, derr := uc.amenityDefinition(ctx, tx, req.AmenityID)
		if derr != nil {
			return derr
		}

		code, derr := tx.Bookings().NextCode(ctx, req.BookingDate)
		if derr != nil {
			return derr
		}

		b, derr := uc.factory.NewBooking(def, code, residentID, req.BookingDate, windows)
		if derr != nil {
			return errs.Mark(derr, ErrDomainValidation)
		}

		for _, w := range windows {
			if derr = tx.Slots().ReserveOne(ctx, def.ID(), w.Start(), w.End(), def.Capacity()); derr != nil {
				if infra.IsKind(derr, infra.KindConflict) {
					return &SlotUnavailableError{Start: w.Start(), End: w.End()}
				}
				return derr
			}
		}

		if derr = tx.Bookings().Create(ctx, b); derr != nil {
			return derr
		}

		result = &ReserveResult{
			BookingID:  b.ID(),
			Code:       b.Code(),
			TotalPrice: b.TotalPrice(),
			ExpiresAt:  *b.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *reservationUseCaseImpl) amenityDefinition(ctx context.Context, tx shared.Tx, id uuid.UUID) (*amenity.Definition, error) {
	snap, err := tx.Reads().AmenityByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrAmenityNotFound)
		}
		return nil, err
	}
	if !snap.Active {
		return nil, ErrAmenityInactive
	}
	def, err := amenity.NewDefinition(snap.ID, snap.Name, snap.OpenMinute, snap.CloseMinute, snap.SlotMinutes, snap.Capacity, snap.UnitPrice, snap.Active)
	if err != nil {
		return nil, errs.Wrap(err, "stored amenity definition is invalid")
	}
	return def, nil
}

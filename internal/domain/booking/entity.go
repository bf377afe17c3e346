package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HoldTTL is how long a PENDING booking keeps its slots before the payment
// window closes.
const HoldTTL = 15 * time.Minute

var (
	ErrNotPending      = errors.New("booking is not pending")
	ErrHoldExpired     = errors.New("payment window expired")
	ErrWrongResident   = errors.New("booking belongs to a different resident")
	ErrMissingDeadline = errors.New("pending booking must carry an expiry deadline")
)

// Booking is the aggregate created by the reservation flow. The ordered set
// of windows it reserved is kept on the entity so releasing capacity never
// needs to re-derive it from the ledger.
type Booking struct {
	id          uuid.UUID
	code        string
	residentID  uuid.UUID
	amenityID   uuid.UUID
	bookingDate time.Time
	windows     []TimeWindow
	unitPrice   int64
	totalPrice  int64
	status      Status
	expiresAt   *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func newBooking(
	code string,
	residentID, amenityID uuid.UUID,
	bookingDate time.Time,
	windows []TimeWindow,
	unitPrice, totalPrice int64,
	now time.Time,
) *Booking {
	deadline := now.Add(HoldTTL)
	return &Booking{
		id:          uuid.New(),
		code:        code,
		residentID:  residentID,
		amenityID:   amenityID,
		bookingDate: bookingDate,
		windows:     windows,
		unitPrice:   unitPrice,
		totalPrice:  totalPrice,
		status:      StatusPending,
		expiresAt:   &deadline,
	}
}

func ReconstructBooking(
	id uuid.UUID,
	code string,
	residentID, amenityID uuid.UUID,
	bookingDate time.Time,
	windows []TimeWindow,
	unitPrice, totalPrice int64,
	status Status,
	expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		code:        code,
		residentID:  residentID,
		amenityID:   amenityID,
		bookingDate: bookingDate,
		windows:     windows,
		unitPrice:   unitPrice,
		totalPrice:  totalPrice,
		status:      status,
		expiresAt:   expiresAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) Code() string          { return b.code }
func (b *Booking) ResidentID() uuid.UUID { return b.residentID }
func (b *Booking) AmenityID() uuid.UUID  { return b.amenityID }
func (b *Booking) BookingDate() time.Time {
	return b.bookingDate
}
func (b *Booking) Windows() []TimeWindow { return b.windows }
func (b *Booking) UnitPrice() int64      { return b.unitPrice }
func (b *Booking) TotalPrice() int64     { return b.totalPrice }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) ExpiresAt() *time.Time { return b.expiresAt }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }

// HoldExpired reports whether the payment deadline has passed. Only a
// PENDING booking carries a deadline.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.status == StatusPending && b.expiresAt != nil && now.After(*b.expiresAt)
}

// MarkPaid transitions PENDING -> PAID for the owning resident. A deadline
// that has already passed yields ErrHoldExpired so the caller can expire the
// booking and release its slots before reporting the failure.
func (b *Booking) MarkPaid(residentID uuid.UUID, now time.Time) error {
	if b.residentID != residentID {
		return ErrWrongResident
	}
	if b.status != StatusPending {
		return ErrNotPending
	}
	if b.expiresAt == nil {
		return ErrMissingDeadline
	}
	if now.After(*b.expiresAt) {
		return ErrHoldExpired
	}
	b.status = StatusPaid
	b.expiresAt = nil
	return nil
}

// MarkExpired transitions PENDING -> EXPIRED.
func (b *Booking) MarkExpired() error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusExpired
	return nil
}

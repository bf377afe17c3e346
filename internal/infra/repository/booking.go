package repository

import (
	"context"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct {
	dbtx db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{dbtx: dbtx}
}

const nextCodeSQL = `
INSERT INTO booking_code_seq (day, last_seq)
VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE
SET last_seq = booking_code_seq.last_seq + 1
RETURNING last_seq`

// NextCode claims the next daily sequence number. The upsert locks the
// per-day counter row, so two bookings created in the same instant still
// get distinct codes; numbers spent on later-expired bookings are never
// reused.
func (r *BookingRepository) NextCode(ctx context.Context, day time.Time) (string, error) {
	var seq int
	if err := r.dbtx.QueryRow(ctx, nextCodeSQL, day).Scan(&seq); err != nil {
		return "", infra.WrapRepoErr("failed to claim booking code", err)
	}
	return booking.FormatCode(day, seq), nil
}

const createBookingSQL = `
INSERT INTO bookings (id, code, resident_id, amenity_id, booking_date, unit_price, total_price, status, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const createBookingWindowSQL = `
INSERT INTO booking_windows (booking_id, start_at, end_at)
VALUES ($1, $2, $3)`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.dbtx.Exec(ctx, createBookingSQL,
		b.ID(), b.Code(), b.ResidentID(), b.AmenityID(), b.BookingDate(),
		b.UnitPrice(), b.TotalPrice(), b.Status().String(), b.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}

	for _, w := range b.Windows() {
		if _, err := r.dbtx.Exec(ctx, createBookingWindowSQL, b.ID(), w.Start(), w.End()); err != nil {
			return infra.WrapRepoErr("failed to create booking window", err)
		}
	}
	return nil
}

const findBookingForUpdateSQL = `
SELECT id, code, resident_id, amenity_id, booking_date, unit_price, total_price, status, expires_at
FROM bookings
WHERE id = $1
FOR UPDATE`

func (r *BookingRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap   shared.BookingSnapshot
		status string
	)
	err := r.dbtx.QueryRow(ctx, findBookingForUpdateSQL, id).Scan(
		&snap.ID, &snap.Code, &snap.ResidentID, &snap.AmenityID, &snap.BookingDate,
		&snap.UnitPrice, &snap.TotalPrice, &status, &snap.ExpiresAt,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	snap.Status = booking.Status(status)
	return &snap, nil
}

const bookingWindowsSQL = `
SELECT start_at, end_at
FROM booking_windows
WHERE booking_id = $1
ORDER BY start_at`

func (r *BookingRepository) Windows(ctx context.Context, id uuid.UUID) ([]booking.TimeWindow, error) {
	rows, err := r.dbtx.Query(ctx, bookingWindowsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking windows", err)
	}
	defer rows.Close()

	var windows []booking.TimeWindow
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking window", err)
		}
		w, err := booking.NewTimeWindow(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking window is invalid", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking windows", err)
	}
	return windows, nil
}

const setPaidSQL = `
UPDATE bookings
SET status = 'PAID', expires_at = NULL, updated_at = now()
WHERE id = $1 AND status = 'PENDING'`

func (r *BookingRepository) SetPaid(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, setPaidSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark booking paid", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking is not pending", nil, infra.KindConflict)
	}
	return nil
}

const setPaidFromPaymentSQL = `
UPDATE bookings
SET status = 'PAID', expires_at = NULL, updated_at = now()
WHERE id = $1 AND status <> 'PAID'`

// SetPaidFromPayment is the webhook propagation write. A booking already
// PAID is left untouched, which keeps webhook replays side-effect free.
func (r *BookingRepository) SetPaidFromPayment(ctx context.Context, id uuid.UUID) error {
	if _, err := r.dbtx.Exec(ctx, setPaidFromPaymentSQL, id); err != nil {
		return infra.WrapRepoErr("failed to propagate payment to booking", err)
	}
	return nil
}

const setExpiredSQL = `
UPDATE bookings
SET status = 'EXPIRED', updated_at = now()
WHERE id = $1 AND status = 'PENDING'`

func (r *BookingRepository) SetExpired(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, setExpiredSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to expire booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking is not pending", nil, infra.KindConflict)
	}
	return nil
}

package readstore

import (
	"context"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/queries"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

const getBookingViewSQL = `
SELECT b.id, b.code, b.resident_id, b.amenity_id, a.name, b.booking_date,
	b.unit_price, b.total_price, b.status, b.expires_at, b.created_at, b.updated_at
FROM bookings b
JOIN amenities a ON a.id = b.amenity_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	err := r.dbtx.QueryRow(ctx, getBookingViewSQL, id).Scan(
		&view.ID, &view.Code, &view.ResidentID, &view.AmenityID, &view.AmenityName,
		&view.BookingDate, &view.UnitPrice, &view.TotalPrice, &view.Status,
		&view.ExpiresAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	windows, err := r.windows(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Windows = windows
	return &view, nil
}

const getBookingWindowsSQL = `
SELECT start_at, end_at
FROM booking_windows
WHERE booking_id = $1
ORDER BY start_at`

func (r *BookingReadStore) windows(ctx context.Context, id uuid.UUID) ([]queries.WindowView, error) {
	rows, err := r.dbtx.Query(ctx, getBookingWindowsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load booking windows", err)
	}
	defer rows.Close()

	var windows []queries.WindowView
	for rows.Next() {
		var w queries.WindowView
		if err := rows.Scan(&w.Start, &w.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking window", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking windows", err)
	}
	return windows, nil
}

const listBookingsByResidentSQL = `
SELECT b.id, b.code, a.name, b.booking_date, b.total_price, b.status, b.created_at
FROM bookings b
JOIN amenities a ON a.id = b.amenity_id
WHERE b.resident_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2`

func (r *BookingReadStore) ListByResident(ctx context.Context, residentID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.dbtx.Query(ctx, listBookingsByResidentSQL, residentID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(&item.ID, &item.Code, &item.AmenityName, &item.BookingDate, &item.TotalPrice, &item.Status, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}

const getBookingSnapshotSQL = `
SELECT id, code, resident_id, amenity_id, booking_date, unit_price, total_price, status, expires_at
FROM bookings
WHERE id = $1`

func (r *BookingReadStore) Snapshot(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap   shared.BookingSnapshot
		status string
	)
	err := r.dbtx.QueryRow(ctx, getBookingSnapshotSQL, id).Scan(
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

const expiredPendingSQL = `
SELECT id
FROM bookings
WHERE status = 'PENDING' AND expires_at < $1
ORDER BY expires_at
LIMIT $2`

// ExpiredPending selects sweep candidates. The sweep re-checks each row
// under FOR UPDATE before expiring it, so this read can be stale without
// harm.
func (r *BookingReadStore) ExpiredPending(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.dbtx.Query(ctx, expiredPendingSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired pending bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired bookings", err)
	}
	return ids, nil
}

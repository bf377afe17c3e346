//go:build unit || e2e

package builder

import (
	"time"

	"resihub/internal/domain/amenity"
	"resihub/internal/domain/booking"
	reqdto "resihub/internal/handler/dto/request"
	"resihub/internal/pkg/clock"
	"resihub/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Code        string
	ResidentID  uuid.UUID
	BookingDate time.Time
	Windows     []booking.TimeWindow
	Now         time.Time
}

func NewBookingBuilder() *BookingBuilder {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	w, _ := booking.NewTimeWindow(date.Add(9*time.Hour), date.Add(10*time.Hour))
	return &BookingBuilder{
		Code:        "BKG-20260310-001",
		ResidentID:  uuid.New(),
		BookingDate: date,
		Windows:     []booking.TimeWindow{w},
		Now:         date.Add(8 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain(def *amenity.Definition) (*booking.Booking, error) {
	factory := booking.NewFactory(clock.NewMockClock(b.Now))
	return factory.NewBooking(def, b.Code, b.ResidentID, b.BookingDate, b.Windows)
}

func (b *BookingBuilder) BuildView(amenityID uuid.UUID) *queries.BookingView {
	windows := make([]queries.WindowView, 0, len(b.Windows))
	for _, w := range b.Windows {
		windows = append(windows, queries.WindowView{Start: w.Start(), End: w.End()})
	}
	expiresAt := b.Now.Add(booking.HoldTTL)
	return &queries.BookingView{
		ID:          uuid.New(),
		Code:        b.Code,
		ResidentID:  b.ResidentID,
		AmenityID:   amenityID,
		AmenityName: "Swimming Pool",
		BookingDate: b.BookingDate,
		Windows:     windows,
		UnitPrice:   50000,
		TotalPrice:  int64(len(b.Windows)) * 50000,
		Status:      booking.StatusPending.String(),
		ExpiresAt:   &expiresAt,
		CreatedAt:   b.Now,
		UpdatedAt:   b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:          uuid.New(),
		Code:        b.Code,
		AmenityName: "Swimming Pool",
		BookingDate: b.BookingDate,
		TotalPrice:  int64(len(b.Windows)) * 50000,
		Status:      booking.StatusPending.String(),
		CreatedAt:   b.Now,
	}
}

func (b *BookingBuilder) BuildDTO(amenityID uuid.UUID) reqdto.CreateBookingRequest {
	windows := make([]reqdto.BookingWindowRequest, 0, len(b.Windows))
	for _, w := range b.Windows {
		windows = append(windows, reqdto.BookingWindowRequest{Start: w.Start(), End: w.End()})
	}
	return reqdto.CreateBookingRequest{
		AmenityID:   amenityID,
		BookingDate: b.BookingDate.Format("2006-01-02"),
		Windows:     windows,
	}
}

package request

import (
	"time"

	"resihub/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingWindowRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

type CreateBookingRequest struct {
	AmenityID   uuid.UUID              `json:"amenity_id" binding:"required"`
	BookingDate string                 `json:"booking_date" binding:"required,datetime=2006-01-02"`
	Windows     []BookingWindowRequest `json:"windows" binding:"required,min=1,dive"`
}

func (r CreateBookingRequest) ToCommand() (commands.ReserveRequest, error) {
	date, err := time.Parse("2006-01-02", r.BookingDate)
	if err != nil {
		return commands.ReserveRequest{}, err
	}
	windows := make([]commands.WindowInput, 0, len(r.Windows))
	for _, w := range r.Windows {
		windows = append(windows, commands.WindowInput{Start: w.Start, End: w.End})
	}
	return commands.ReserveRequest{
		AmenityID:   r.AmenityID,
		BookingDate: date,
		Windows:     windows,
	}, nil
}

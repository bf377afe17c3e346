package response

import (
	"time"

	"resihub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BookingResponse struct {
	ID          uuid.UUID        `json:"id"`
	Code        string           `json:"code"`
	ResidentID  uuid.UUID        `json:"residentId"`
	AmenityID   uuid.UUID        `json:"amenityId"`
	AmenityName string           `json:"amenityName"`
	BookingDate time.Time        `json:"bookingDate"`
	Windows     []WindowResponse `json:"windows"`
	UnitPrice   int64            `json:"unitPrice"`
	TotalPrice  int64            `json:"totalPrice"`
	Status      string           `json:"status"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type BookingListResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	AmenityName string    `json:"amenityName"`
	BookingDate time.Time `json:"bookingDate"`
	TotalPrice  int64     `json:"totalPrice"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Remaining int32     `json:"remaining"`
	Available bool      `json:"available"`
}

type AvailabilityResponse struct {
	AmenityID uuid.UUID      `json:"amenityId"`
	Date      string         `json:"date"`
	Slots     []SlotResponse `json:"slots"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItems(rms []*queries.BookingListItem) []*BookingListResponse {
	out := make([]*BookingListResponse, 0, len(rms))
	for _, rm := range rms {
		var resp BookingListResponse
		_ = copier.Copy(&resp, rm)
		out = append(out, &resp)
	}
	return out
}

func FromSlotViews(amenityID uuid.UUID, date time.Time, views []queries.SlotView) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(views))
	_ = copier.Copy(&slots, views)
	return &AvailabilityResponse{
		AmenityID: amenityID,
		Date:      date.Format("2006-01-02"),
		Slots:     slots,
	}
}

package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side). Views are denormalized (amenity name
// joined in) so the API layer never touches repositories directly.

type WindowView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BookingView struct {
	ID          uuid.UUID    `json:"id"`
	Code        string       `json:"code"`
	ResidentID  uuid.UUID    `json:"resident_id"`
	AmenityID   uuid.UUID    `json:"amenity_id"`
	AmenityName string       `json:"amenity_name"`
	BookingDate time.Time    `json:"booking_date"`
	Windows     []WindowView `json:"windows"`
	UnitPrice   int64        `json:"unit_price"`
	TotalPrice  int64        `json:"total_price"`
	Status      string       `json:"status"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	AmenityName string    `json:"amenity_name"`
	BookingDate time.Time `json:"booking_date"`
	TotalPrice  int64     `json:"total_price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// SlotView is one window of the synthesized daily availability grid.
// Windows without a ledger row report full capacity.
type SlotView struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Remaining int32     `json:"remaining"`
	Available bool      `json:"available"`
}

type PaymentView struct {
	ID           uuid.UUID  `json:"id"`
	TxnRef       string     `json:"txn_ref"`
	TargetType   string     `json:"target_type"`
	TargetID     uuid.UUID  `json:"target_id"`
	PayerID      uuid.UUID  `json:"payer_id"`
	Amount       int64      `json:"amount"`
	Currency     string     `json:"currency"`
	Gateway      string     `json:"gateway"`
	Status       string     `json:"status"`
	PaymentURL   *string    `json:"payment_url,omitempty"`
	GatewayTxnID *string    `json:"gateway_txn_id,omitempty"`
	ResponseCode *string    `json:"gateway_response_code,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RetryCount   int32      `json:"retry_count"`
	PayDate      *time.Time `json:"pay_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

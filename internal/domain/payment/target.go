package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TargetType tags what a transaction settles: a booking or an invoice.
type TargetType string

const (
	TargetBooking TargetType = "BOOKING"
	TargetInvoice TargetType = "INVOICE"
)

var ErrUnknownTargetType = errors.New("unknown payment target type")

func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(s) {
	case TargetBooking, TargetInvoice:
		return TargetType(s), nil
	default:
		return "", ErrUnknownTargetType
	}
}

// Target is the tagged union the reconciliation engine dispatches on.
type Target struct {
	Type TargetType
	ID   uuid.UUID
}

func (t Target) refPrefix() string {
	if t.Type == TargetInvoice {
		return "INV"
	}
	return "BKG"
}

// NewTxnRef builds the external order reference {PREFIX}_{targetId}_{ms}.
// The millisecond timestamp keeps references unique per attempt; duplicate
// detection for a target is done by querying prior transactions, never by
// probing the freshly generated reference.
func NewTxnRef(t Target, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", t.refPrefix(), t.ID, at.UnixMilli())
}

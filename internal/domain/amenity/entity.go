package amenity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidOperatingHours = errors.New("close time must be after open time")
	ErrInvalidSlotLength     = errors.New("slot length must be positive")
	ErrInvalidCapacity       = errors.New("capacity must be positive")
)

// Definition is the read-only snapshot of a shared amenity as configured by
// the catalog service: operating hours, slot length, per-slot capacity and
// per-slot price. Bookings copy the unit price at reservation time, so later
// price changes never affect existing bookings.
type Definition struct {
	id          uuid.UUID
	name        string
	openMinute  int // minutes from midnight
	closeMinute int
	slotMinutes int
	capacity    int32
	unitPrice   int64
	active      bool
}

func NewDefinition(id uuid.UUID, name string, openMinute, closeMinute, slotMinutes int, capacity int32, unitPrice int64, active bool) (*Definition, error) {
	if closeMinute <= openMinute {
		return nil, ErrInvalidOperatingHours
	}
	if slotMinutes <= 0 {
		return nil, ErrInvalidSlotLength
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Definition{
		id:          id,
		name:        name,
		openMinute:  openMinute,
		closeMinute: closeMinute,
		slotMinutes: slotMinutes,
		capacity:    capacity,
		unitPrice:   unitPrice,
		active:      active,
	}, nil
}

func (d *Definition) ID() uuid.UUID    { return d.id }
func (d *Definition) Name() string     { return d.name }
func (d *Definition) OpenMinute() int  { return d.openMinute }
func (d *Definition) CloseMinute() int { return d.closeMinute }
func (d *Definition) SlotMinutes() int { return d.slotMinutes }
func (d *Definition) Capacity() int32  { return d.capacity }
func (d *Definition) UnitPrice() int64 { return d.unitPrice }
func (d *Definition) IsActive() bool   { return d.active }

// OpensAt returns the opening instant for the given calendar day.
func (d *Definition) OpensAt(day time.Time) time.Time {
	return atMinute(day, d.openMinute)
}

// ClosesAt returns the closing instant for the given calendar day.
func (d *Definition) ClosesAt(day time.Time) time.Time {
	return atMinute(day, d.closeMinute)
}

func atMinute(day time.Time, minute int) time.Time {
	y, m, dd := day.Date()
	return time.Date(y, m, dd, minute/60, minute%60, 0, 0, day.Location())
}

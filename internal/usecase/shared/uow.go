package shared

import (
	"context"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/domain/payment"
	"resihub/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Slots() SlotLedger
	Bookings() BookingRepository
	Payments() PaymentRepository
	Invoices() InvoiceRepository
	Reads() CommandReads
	DB() db.DBTX
}

// SlotLedger guards per-window capacity. Both methods run inside the
// caller's transaction: the slot row lock serializes concurrent callers for
// the same window while disjoint windows proceed in parallel.
type SlotLedger interface {
	// ReserveOne creates the window row lazily with capacity-1 remaining, or
	// decrements an existing row. An exhausted window reports a CONFLICT
	// repository error.
	ReserveOne(ctx context.Context, amenityID uuid.UUID, start, end time.Time, capacity int32) error
	// ReleaseOne gives one reservation back; always paired with a prior
	// ReserveOne, so remaining never exceeds capacity.
	ReleaseOne(ctx context.Context, amenityID uuid.UUID, start time.Time) error
}

type BookingRepository interface {
	// NextCode claims the next per-day sequence number under a row lock.
	NextCode(ctx context.Context, day time.Time) (string, error)
	Create(ctx context.Context, b *booking.Booking) error
	FindForUpdate(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	Windows(ctx context.Context, id uuid.UUID) ([]booking.TimeWindow, error)
	SetPaid(ctx context.Context, id uuid.UUID) error
	// SetPaidFromPayment is the webhook propagation path; setting PAID twice
	// is a no-op so replays stay harmless.
	SetPaidFromPayment(ctx context.Context, id uuid.UUID) error
	SetExpired(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, t *payment.Transaction) error
	SetPaymentURL(ctx context.Context, id uuid.UUID, url string) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	FindByTxnRefForUpdate(ctx context.Context, txnRef string) (*PaymentSnapshot, error)
	RecordGatewayResult(ctx context.Context, id uuid.UUID, gatewayTxnID, responseCode string, rawLog []byte) error
	MarkSucceeded(ctx context.Context, id uuid.UUID, payDate time.Time) error
}

type InvoiceRepository interface {
	FindForUpdate(ctx context.Context, id uuid.UUID) (*InvoiceSnapshot, error)
	SetPaid(ctx context.Context, id uuid.UUID) error
}

type CommandReads interface {
	ResidentByID(ctx context.Context, id uuid.UUID) (*ResidentSnapshot, error)
	AmenityByID(ctx context.Context, id uuid.UUID) (*AmenitySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	InvoiceByID(ctx context.Context, id uuid.UUID) (*InvoiceSnapshot, error)
	ExpiredPendingBookings(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	HasSuccessfulPayment(ctx context.Context, target payment.Target) (bool, error)
	CountPaymentsForTarget(ctx context.Context, target payment.Target) (int32, error)
}

// Minimal snapshots for command read operations

type ResidentSnapshot struct {
	ID     uuid.UUID
	Email  string
	Active bool
}

type AmenitySnapshot struct {
	ID          uuid.UUID
	Name        string
	OpenMinute  int
	CloseMinute int
	SlotMinutes int
	Capacity    int32
	UnitPrice   int64
	Active      bool
}

type BookingSnapshot struct {
	ID          uuid.UUID
	Code        string
	ResidentID  uuid.UUID
	AmenityID   uuid.UUID
	BookingDate time.Time
	UnitPrice   int64
	TotalPrice  int64
	Status      booking.Status
	ExpiresAt   *time.Time
}

type InvoiceSnapshot struct {
	ID         uuid.UUID
	ResidentID uuid.UUID
	Amount     int64
	Status     string
}

type PaymentSnapshot struct {
	ID           uuid.UUID
	TxnRef       string
	Target       payment.Target
	PayerID      uuid.UUID
	Amount       int64
	Currency     string
	Gateway      payment.GatewayKind
	Status       payment.Status
	GatewayTxnID *string
	ResponseCode *string
	PaymentURL   *string
	ExpiresAt    time.Time
	RetryCount   int32
	PayDate      *time.Time
}

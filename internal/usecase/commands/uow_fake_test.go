//go:build unit

package commands_test

import (
	"context"
	"sort"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/domain/payment"
	"resihub/internal/infra"
	"resihub/internal/infra/db"
	"resihub/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeUoW is an in-memory shared.UnitOfWork with real transaction
// semantics: Within runs the callback against a deep copy of the state and
// only commits the copy on success, so a failing reservation rolls back
// every ledger decrement it made.
type fakeUoW struct {
	state *fakeState

	// afterExpiredScan, when set, runs after ExpiredPendingBookings returns
	// its ids. Tests use it to land a payment between the sweep's scan and
	// its per-booking lock.
	afterExpiredScan func()
}

type fakeState struct {
	residents map[uuid.UUID]shared.ResidentSnapshot
	amenities map[uuid.UUID]shared.AmenitySnapshot
	slots     map[slotKey]int32
	bookings  map[uuid.UUID]*bookingRow
	codeSeq   map[string]int
	payments  map[uuid.UUID]*paymentRow
	invoices  map[uuid.UUID]shared.InvoiceSnapshot
}

type slotKey struct {
	amenityID uuid.UUID
	start     time.Time
}

type bookingRow struct {
	snap    shared.BookingSnapshot
	windows []booking.TimeWindow
}

type paymentRow struct {
	snap   shared.PaymentSnapshot
	rawLog []byte
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: &fakeState{
		residents: make(map[uuid.UUID]shared.ResidentSnapshot),
		amenities: make(map[uuid.UUID]shared.AmenitySnapshot),
		slots:     make(map[slotKey]int32),
		bookings:  make(map[uuid.UUID]*bookingRow),
		codeSeq:   make(map[string]int),
		payments:  make(map[uuid.UUID]*paymentRow),
		invoices:  make(map[uuid.UUID]shared.InvoiceSnapshot),
	}}
}

func (s *fakeState) clone() *fakeState {
	out := &fakeState{
		residents: make(map[uuid.UUID]shared.ResidentSnapshot, len(s.residents)),
		amenities: make(map[uuid.UUID]shared.AmenitySnapshot, len(s.amenities)),
		slots:     make(map[slotKey]int32, len(s.slots)),
		bookings:  make(map[uuid.UUID]*bookingRow, len(s.bookings)),
		codeSeq:   make(map[string]int, len(s.codeSeq)),
		payments:  make(map[uuid.UUID]*paymentRow, len(s.payments)),
		invoices:  make(map[uuid.UUID]shared.InvoiceSnapshot, len(s.invoices)),
	}
	for k, v := range s.residents {
		out.residents[k] = v
	}
	for k, v := range s.amenities {
		out.amenities[k] = v
	}
	for k, v := range s.slots {
		out.slots[k] = v
	}
	for k, v := range s.bookings {
		row := *v
		row.snap = cloneBookingSnap(v.snap)
		row.windows = append([]booking.TimeWindow(nil), v.windows...)
		out.bookings[k] = &row
	}
	for k, v := range s.codeSeq {
		out.codeSeq[k] = v
	}
	for k, v := range s.payments {
		row := *v
		row.snap = clonePaymentSnap(v.snap)
		out.payments[k] = &row
	}
	for k, v := range s.invoices {
		out.invoices[k] = v
	}
	return out
}

func cloneBookingSnap(s shared.BookingSnapshot) shared.BookingSnapshot {
	if s.ExpiresAt != nil {
		at := *s.ExpiresAt
		s.ExpiresAt = &at
	}
	return s
}

func clonePaymentSnap(s shared.PaymentSnapshot) shared.PaymentSnapshot {
	s.GatewayTxnID = cloneStr(s.GatewayTxnID)
	s.ResponseCode = cloneStr(s.ResponseCode)
	s.PaymentURL = cloneStr(s.PaymentURL)
	if s.PayDate != nil {
		at := *s.PayDate
		s.PayDate = &at
	}
	return s
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	next := u.state.clone()
	if err := fn(ctx, &fakeTx{state: next}); err != nil {
		return err
	}
	u.state = next
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{state: u.state, afterExpiredScan: u.afterExpiredScan}
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Slots() shared.SlotLedger           { return &fakeSlots{state: t.state} }
func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookings{state: t.state} }
func (t *fakeTx) Payments() shared.PaymentRepository { return &fakePayments{state: t.state} }
func (t *fakeTx) Invoices() shared.InvoiceRepository { return &fakeInvoices{state: t.state} }
func (t *fakeTx) Reads() shared.CommandReads         { return &fakeReads{state: t.state} }
func (t *fakeTx) DB() db.DBTX                        { return nil }

type fakeSlots struct {
	state *fakeState
}

func (s *fakeSlots) ReserveOne(_ context.Context, amenityID uuid.UUID, start, _ time.Time, capacity int32) error {
	key := slotKey{amenityID: amenityID, start: start.UTC()}
	remaining, ok := s.state.slots[key]
	if !ok {
		s.state.slots[key] = capacity - 1
		return nil
	}
	if remaining <= 0 {
		return infra.WrapRepoErr("slot window exhausted", nil, infra.KindConflict)
	}
	s.state.slots[key] = remaining - 1
	return nil
}

func (s *fakeSlots) ReleaseOne(_ context.Context, amenityID uuid.UUID, start time.Time) error {
	key := slotKey{amenityID: amenityID, start: start.UTC()}
	if _, ok := s.state.slots[key]; !ok {
		return infra.WrapRepoErr("slot window not found", nil, infra.KindNotFound)
	}
	s.state.slots[key]++
	return nil
}

type fakeBookings struct {
	state *fakeState
}

func (r *fakeBookings) NextCode(_ context.Context, day time.Time) (string, error) {
	key := day.Format("20060102")
	r.state.codeSeq[key]++
	return booking.FormatCode(day, r.state.codeSeq[key]), nil
}

func (r *fakeBookings) Create(_ context.Context, b *booking.Booking) error {
	snap := shared.BookingSnapshot{
		ID:          b.ID(),
		Code:        b.Code(),
		ResidentID:  b.ResidentID(),
		AmenityID:   b.AmenityID(),
		BookingDate: b.BookingDate(),
		UnitPrice:   b.UnitPrice(),
		TotalPrice:  b.TotalPrice(),
		Status:      b.Status(),
	}
	if at := b.ExpiresAt(); at != nil {
		v := *at
		snap.ExpiresAt = &v
	}
	r.state.bookings[b.ID()] = &bookingRow{snap: snap, windows: append([]booking.TimeWindow(nil), b.Windows()...)}
	return nil
}

func (r *fakeBookings) FindForUpdate(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap := cloneBookingSnap(row.snap)
	return &snap, nil
}

func (r *fakeBookings) Windows(_ context.Context, id uuid.UUID) ([]booking.TimeWindow, error) {
	row, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return append([]booking.TimeWindow(nil), row.windows...), nil
}

func (r *fakeBookings) SetPaid(_ context.Context, id uuid.UUID) error {
	row, ok := r.state.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if row.snap.Status != booking.StatusPending {
		return infra.WrapRepoErr("booking is not pending", nil, infra.KindConflict)
	}
	row.snap.Status = booking.StatusPaid
	row.snap.ExpiresAt = nil
	return nil
}

func (r *fakeBookings) SetPaidFromPayment(_ context.Context, id uuid.UUID) error {
	row, ok := r.state.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	switch row.snap.Status {
	case booking.StatusPaid:
		return nil
	case booking.StatusPending:
		row.snap.Status = booking.StatusPaid
		row.snap.ExpiresAt = nil
		return nil
	default:
		return infra.WrapRepoErr("booking is not payable", nil, infra.KindConflict)
	}
}

func (r *fakeBookings) SetExpired(_ context.Context, id uuid.UUID) error {
	row, ok := r.state.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if row.snap.Status != booking.StatusPending {
		return infra.WrapRepoErr("booking is not pending", nil, infra.KindConflict)
	}
	row.snap.Status = booking.StatusExpired
	row.snap.ExpiresAt = nil
	return nil
}

type fakePayments struct {
	state *fakeState
}

func (r *fakePayments) Create(_ context.Context, t *payment.Transaction) error {
	r.state.payments[t.ID()] = &paymentRow{snap: shared.PaymentSnapshot{
		ID:         t.ID(),
		TxnRef:     t.TxnRef(),
		Target:     t.Target(),
		PayerID:    t.PayerID(),
		Amount:     t.Amount(),
		Currency:   t.Currency(),
		Gateway:    t.Gateway(),
		Status:     t.Status(),
		ExpiresAt:  t.ExpiresAt(),
		RetryCount: t.RetryCount(),
	}}
	return nil
}

func (r *fakePayments) SetPaymentURL(_ context.Context, id uuid.UUID, url string) error {
	row, ok := r.state.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	row.snap.PaymentURL = &url
	return nil
}

func (r *fakePayments) MarkFailed(_ context.Context, id uuid.UUID) error {
	row, ok := r.state.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	if row.snap.Status == payment.StatusPending {
		row.snap.Status = payment.StatusFailed
	}
	return nil
}

func (r *fakePayments) FindByTxnRefForUpdate(_ context.Context, txnRef string) (*shared.PaymentSnapshot, error) {
	for _, row := range r.state.payments {
		if row.snap.TxnRef == txnRef {
			snap := clonePaymentSnap(row.snap)
			return &snap, nil
		}
	}
	return nil, infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
}

func (r *fakePayments) RecordGatewayResult(_ context.Context, id uuid.UUID, gatewayTxnID, responseCode string, rawLog []byte) error {
	row, ok := r.state.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	row.snap.GatewayTxnID = &gatewayTxnID
	row.snap.ResponseCode = &responseCode
	row.rawLog = append([]byte(nil), rawLog...)
	return nil
}

func (r *fakePayments) MarkSucceeded(_ context.Context, id uuid.UUID, payDate time.Time) error {
	row, ok := r.state.payments[id]
	if !ok {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	if row.snap.Status != payment.StatusPending {
		return nil
	}
	row.snap.Status = payment.StatusSuccess
	row.snap.PayDate = &payDate
	return nil
}

type fakeInvoices struct {
	state *fakeState
}

func (r *fakeInvoices) FindForUpdate(_ context.Context, id uuid.UUID) (*shared.InvoiceSnapshot, error) {
	inv, ok := r.state.invoices[id]
	if !ok {
		return nil, infra.WrapRepoErr("invoice not found", nil, infra.KindNotFound)
	}
	return &inv, nil
}

func (r *fakeInvoices) SetPaid(_ context.Context, id uuid.UUID) error {
	inv, ok := r.state.invoices[id]
	if !ok {
		return infra.WrapRepoErr("invoice not found", nil, infra.KindNotFound)
	}
	inv.Status = "PAID"
	r.state.invoices[id] = inv
	return nil
}

type fakeReads struct {
	state            *fakeState
	afterExpiredScan func()
}

func (r *fakeReads) ResidentByID(_ context.Context, id uuid.UUID) (*shared.ResidentSnapshot, error) {
	res, ok := r.state.residents[id]
	if !ok {
		return nil, infra.WrapRepoErr("resident not found", nil, infra.KindNotFound)
	}
	return &res, nil
}

func (r *fakeReads) AmenityByID(_ context.Context, id uuid.UUID) (*shared.AmenitySnapshot, error) {
	a, ok := r.state.amenities[id]
	if !ok {
		return nil, infra.WrapRepoErr("amenity not found", nil, infra.KindNotFound)
	}
	return &a, nil
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	row, ok := r.state.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap := cloneBookingSnap(row.snap)
	return &snap, nil
}

func (r *fakeReads) InvoiceByID(_ context.Context, id uuid.UUID) (*shared.InvoiceSnapshot, error) {
	inv, ok := r.state.invoices[id]
	if !ok {
		return nil, infra.WrapRepoErr("invoice not found", nil, infra.KindNotFound)
	}
	return &inv, nil
}

func (r *fakeReads) ExpiredPendingBookings(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, row := range r.state.bookings {
		if row.snap.Status == booking.StatusPending && row.snap.ExpiresAt != nil && now.After(*row.snap.ExpiresAt) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if r.afterExpiredScan != nil {
		r.afterExpiredScan()
	}
	return ids, nil
}

func (r *fakeReads) HasSuccessfulPayment(_ context.Context, target payment.Target) (bool, error) {
	for _, row := range r.state.payments {
		if row.snap.Target == target && row.snap.Status == payment.StatusSuccess {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) CountPaymentsForTarget(_ context.Context, target payment.Target) (int32, error) {
	var n int32
	for _, row := range r.state.payments {
		if row.snap.Target == target {
			n++
		}
	}
	return n, nil
}

// Seeding and inspection helpers.

func (u *fakeUoW) seedResident(active bool) uuid.UUID {
	id := uuid.New()
	u.state.residents[id] = shared.ResidentSnapshot{ID: id, Email: "resident@example.com", Active: active}
	return id
}

func (u *fakeUoW) seedAmenity(capacity int32, unitPrice int64) uuid.UUID {
	id := uuid.New()
	u.state.amenities[id] = shared.AmenitySnapshot{
		ID:          id,
		Name:        "Swimming Pool",
		OpenMinute:  8 * 60,
		CloseMinute: 20 * 60,
		SlotMinutes: 60,
		Capacity:    capacity,
		UnitPrice:   unitPrice,
		Active:      true,
	}
	return id
}

func (u *fakeUoW) seedInvoice(residentID uuid.UUID, amount int64, status string) uuid.UUID {
	id := uuid.New()
	u.state.invoices[id] = shared.InvoiceSnapshot{ID: id, ResidentID: residentID, Amount: amount, Status: status}
	return id
}

func (u *fakeUoW) remaining(amenityID uuid.UUID, start time.Time) (int32, bool) {
	v, ok := u.state.slots[slotKey{amenityID: amenityID, start: start.UTC()}]
	return v, ok
}

func (u *fakeUoW) booking(id uuid.UUID) shared.BookingSnapshot {
	return u.state.bookings[id].snap
}

func (u *fakeUoW) paymentsFor(target payment.Target) []shared.PaymentSnapshot {
	var out []shared.PaymentSnapshot
	for _, row := range u.state.payments {
		if row.snap.Target == target {
			out = append(out, clonePaymentSnap(row.snap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RetryCount < out[j].RetryCount })
	return out
}

func (u *fakeUoW) invoice(id uuid.UUID) shared.InvoiceSnapshot {
	return u.state.invoices[id]
}

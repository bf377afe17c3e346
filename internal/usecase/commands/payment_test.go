//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"resihub/internal/domain/booking"
	"resihub/internal/domain/payment"
	"resihub/internal/infra/gateway"
	"resihub/internal/pkg/clock"
	"resihub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// stubGateway scripts one provider: what CreatePayment answers and how
// webhooks verify and parse.
type stubGateway struct {
	kind      payment.GatewayKind
	available bool
	payURL    string
	createErr error
	validSig  bool
	result    gateway.WebhookResult

	createCalls int
}

func (g *stubGateway) Kind() payment.GatewayKind { return g.kind }
func (g *stubGateway) Available() bool           { return g.available }

func (g *stubGateway) CreatePayment(_ context.Context, _ gateway.CreatePaymentInput) (string, error) {
	g.createCalls++
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.payURL, nil
}

func (g *stubGateway) VerifySignature(_ map[string]string) bool { return g.validSig }

func (g *stubGateway) ParseResult(_ map[string]string) gateway.WebhookResult { return g.result }

type PaymentUseCaseTestSuite struct {
	suite.Suite
	uow  *fakeUoW
	clk  *clock.MockClock
	stub *stubGateway
	uc   commands.PaymentCommands

	residentID uuid.UUID
	amenityID  uuid.UUID
}

func TestPaymentUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentUseCaseTestSuite))
}

func (s *PaymentUseCaseTestSuite) SetupTest() {
	s.uow = newFakeUoW()
	s.clk = clock.NewMockClock(testDay.Add(7 * time.Hour))
	s.stub = &stubGateway{
		kind:      payment.GatewayMoMo,
		available: true,
		payURL:    "https://pay.example/checkout/abc",
		validSig:  true,
	}
	s.uc = commands.NewPaymentUseCase(s.uow, gateway.NewRegistry(s.stub), s.clk)
	s.residentID = s.uow.seedResident(true)
	s.amenityID = s.uow.seedAmenity(2, 50000)
}

func (s *PaymentUseCaseTestSuite) reserveOne(startHour int) uuid.UUID {
	reservations := commands.NewReservationUseCase(s.uow, booking.NewFactory(s.clk), s.clk)
	res, err := reservations.Reserve(context.Background(), commands.ReserveRequest{
		AmenityID:   s.amenityID,
		BookingDate: testDay,
		Windows:     []commands.WindowInput{windowInput(startHour, startHour + 1)},
	}, s.residentID)
	s.Require().NoError(err)
	return res.BookingID
}

func (s *PaymentUseCaseTestSuite) createBookingPayment(bookingID uuid.UUID) *commands.CreatePaymentResult {
	res, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.Require().NoError(err)
	return res
}

func (s *PaymentUseCaseTestSuite) TestCreatePayment_Success() {
	bookingID := s.reserveOne(9)
	res := s.createBookingPayment(bookingID)

	s.Equal("https://pay.example/checkout/abc", res.PaymentURL)
	s.Equal(int64(50000), res.Amount)
	s.Equal(s.clk.Now().Add(payment.URLTTL), res.ExpiresAt)

	txns := s.uow.paymentsFor(payment.Target{Type: payment.TargetBooking, ID: bookingID})
	s.Require().Len(txns, 1)
	s.Equal(payment.StatusPending, txns[0].Status)
	s.Equal(int32(0), txns[0].RetryCount)
	s.Require().NotNil(txns[0].PaymentURL)
	s.Equal(res.PaymentURL, *txns[0].PaymentURL)
}

func (s *PaymentUseCaseTestSuite) TestCreatePayment_GatewayChecks() {
	bookingID := s.reserveOne(9)

	_, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayVNPay, // not registered
	}, s.residentID)
	s.ErrorIs(err, commands.ErrUnsupportedGateway)

	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayDirect,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrUnsupportedGateway)

	s.stub.available = false
	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrGatewayUnavailable)
	s.Zero(s.stub.createCalls)
}

func (s *PaymentUseCaseTestSuite) TestCreatePayment_TargetChecks() {
	_, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   uuid.New(),
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrTargetNotFound)

	bookingID := s.reserveOne(9)
	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayMoMo,
	}, uuid.New())
	s.ErrorIs(err, commands.ErrTargetNotOwned)

	expired := s.reserveOne(10)
	row := s.uow.state.bookings[expired]
	row.snap.Status = booking.StatusExpired
	row.snap.ExpiresAt = nil
	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   expired,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrTargetNotPayable)

	paid := s.reserveOne(11)
	row = s.uow.state.bookings[paid]
	row.snap.Status = booking.StatusPaid
	row.snap.ExpiresAt = nil
	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   paid,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrAlreadyPaid)
}

func (s *PaymentUseCaseTestSuite) TestCreatePayment_GatewayFailureKeepsAuditRow() {
	bookingID := s.reserveOne(9)
	s.stub.createErr = gateway.ErrUnavailable

	_, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetBooking,
		TargetID:   bookingID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrGatewayUnavailable)

	target := payment.Target{Type: payment.TargetBooking, ID: bookingID}
	txns := s.uow.paymentsFor(target)
	s.Require().Len(txns, 1)
	s.Equal(payment.StatusFailed, txns[0].Status)

	// The retry is a fresh attempt with an incremented count.
	s.stub.createErr = nil
	s.createBookingPayment(bookingID)
	txns = s.uow.paymentsFor(target)
	s.Require().Len(txns, 2)
	s.Equal(int32(1), txns[1].RetryCount)
	s.Equal(payment.StatusPending, txns[1].Status)
}

func (s *PaymentUseCaseTestSuite) webhookPayload() map[string]string {
	return map[string]string{"orderId": "ignored-by-stub"}
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_SuccessPropagatesToBooking() {
	bookingID := s.reserveOne(9)
	res := s.createBookingPayment(bookingID)

	paidAt := s.clk.Now().Add(2 * time.Minute)
	s.stub.result = gateway.WebhookResult{
		OrderRef:      res.TxnRef,
		TransactionID: "4001234567",
		ResponseCode:  "0",
		Succeeded:     true,
		PaidAt:        paidAt,
	}

	err := s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload())
	s.Require().NoError(err)

	txns := s.uow.paymentsFor(payment.Target{Type: payment.TargetBooking, ID: bookingID})
	s.Require().Len(txns, 1)
	s.Equal(payment.StatusSuccess, txns[0].Status)
	s.Require().NotNil(txns[0].PayDate)
	s.Equal(paidAt, *txns[0].PayDate)
	s.Require().NotNil(txns[0].GatewayTxnID)
	s.Equal("4001234567", *txns[0].GatewayTxnID)

	s.Equal(booking.StatusPaid, s.uow.booking(bookingID).Status)
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_FailureRecordsAndKeepsBookingPending() {
	bookingID := s.reserveOne(9)
	res := s.createBookingPayment(bookingID)

	s.stub.result = gateway.WebhookResult{
		OrderRef:     res.TxnRef,
		ResponseCode: "1006",
		Succeeded:    false,
	}

	err := s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload())
	s.Require().NoError(err)

	txns := s.uow.paymentsFor(payment.Target{Type: payment.TargetBooking, ID: bookingID})
	s.Equal(payment.StatusFailed, txns[0].Status)
	s.Equal(booking.StatusPending, s.uow.booking(bookingID).Status)
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_InvalidSignature() {
	s.stub.validSig = false

	err := s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload())
	s.ErrorIs(err, commands.ErrSignatureInvalid)
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_UnknownOrderRef() {
	s.stub.result = gateway.WebhookResult{OrderRef: "BKG_unknown_0", Succeeded: true}

	err := s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload())
	s.ErrorIs(err, commands.ErrTransactionNotFound)
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_ReplayAcksWithoutTouchingState() {
	bookingID := s.reserveOne(9)
	res := s.createBookingPayment(bookingID)

	paidAt := s.clk.Now().Add(2 * time.Minute)
	s.stub.result = gateway.WebhookResult{
		OrderRef:      res.TxnRef,
		TransactionID: "4001234567",
		ResponseCode:  "0",
		Succeeded:     true,
		PaidAt:        paidAt,
	}
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload()))

	// The replay carries a different timestamp; the settled pay date must
	// survive it.
	s.stub.result.PaidAt = paidAt.Add(time.Hour)
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload()))

	txns := s.uow.paymentsFor(payment.Target{Type: payment.TargetBooking, ID: bookingID})
	s.Require().Len(txns, 1)
	s.Equal(payment.StatusSuccess, txns[0].Status)
	s.Equal(paidAt, *txns[0].PayDate)
	s.Equal(booking.StatusPaid, s.uow.booking(bookingID).Status)
}

func (s *PaymentUseCaseTestSuite) TestHandleWebhook_ZeroPayDateFallsBackToClock() {
	bookingID := s.reserveOne(9)
	res := s.createBookingPayment(bookingID)

	s.stub.result = gateway.WebhookResult{OrderRef: res.TxnRef, ResponseCode: "0", Succeeded: true}

	err := s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload())
	s.Require().NoError(err)

	txns := s.uow.paymentsFor(payment.Target{Type: payment.TargetBooking, ID: bookingID})
	s.Require().NotNil(txns[0].PayDate)
	s.Equal(s.clk.Now(), *txns[0].PayDate)
}

func (s *PaymentUseCaseTestSuite) TestInvoiceFlow() {
	invoiceID := s.uow.seedInvoice(s.residentID, 1200000, "UNPAID")

	res, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetInvoice,
		TargetID:   invoiceID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.Require().NoError(err)
	s.Equal(int64(1200000), res.Amount)

	s.stub.result = gateway.WebhookResult{
		OrderRef:     res.TxnRef,
		ResponseCode: "00",
		Succeeded:    true,
		PaidAt:       s.clk.Now(),
	}
	s.Require().NoError(s.uc.HandleWebhook(context.Background(), payment.GatewayMoMo, s.webhookPayload()))

	s.Equal("PAID", s.uow.invoice(invoiceID).Status)

	// A paid invoice refuses further attempts.
	_, err = s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetInvoice,
		TargetID:   invoiceID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrAlreadyPaid)
}

func (s *PaymentUseCaseTestSuite) TestInvoiceOwnership() {
	other := s.uow.seedResident(true)
	invoiceID := s.uow.seedInvoice(other, 1200000, "UNPAID")

	_, err := s.uc.CreatePayment(context.Background(), commands.CreatePaymentRequest{
		TargetType: payment.TargetInvoice,
		TargetID:   invoiceID,
		Gateway:    payment.GatewayMoMo,
	}, s.residentID)
	s.ErrorIs(err, commands.ErrTargetNotOwned)
}

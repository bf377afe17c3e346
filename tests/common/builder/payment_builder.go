//go:build unit || e2e

package builder

import (
	"time"

	"resihub/internal/domain/payment"
	reqdto "resihub/internal/handler/dto/request"
	"resihub/internal/usecase/commands"
	"resihub/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	TargetType payment.TargetType
	TargetID   uuid.UUID
	PayerID    uuid.UUID
	Amount     int64
	Gateway    payment.GatewayKind
	Now        time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		TargetType: payment.TargetBooking,
		TargetID:   uuid.New(),
		PayerID:    uuid.New(),
		Amount:     150000,
		Gateway:    payment.GatewayMoMo,
		Now:        time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

func (p *PaymentBuilder) BuildDTO() reqdto.CreatePaymentRequest {
	return reqdto.CreatePaymentRequest{
		TargetType: string(p.TargetType),
		TargetID:   p.TargetID,
		Gateway:    p.Gateway.String(),
	}
}

func (p *PaymentBuilder) BuildCreateResult() *commands.CreatePaymentResult {
	return &commands.CreatePaymentResult{
		TransactionID: uuid.New(),
		TxnRef:        payment.NewTxnRef(payment.Target{Type: p.TargetType, ID: p.TargetID}, p.Now),
		PaymentURL:    "https://pay.example/checkout/abc",
		Amount:        p.Amount,
		ExpiresAt:     p.Now.Add(payment.URLTTL),
	}
}

func (p *PaymentBuilder) BuildView() *queries.PaymentView {
	url := "https://pay.example/checkout/abc"
	return &queries.PaymentView{
		ID:         uuid.New(),
		TxnRef:     payment.NewTxnRef(payment.Target{Type: p.TargetType, ID: p.TargetID}, p.Now),
		TargetType: string(p.TargetType),
		TargetID:   p.TargetID,
		PayerID:    p.PayerID,
		Amount:     p.Amount,
		Currency:   payment.DefaultCurrency,
		Gateway:    p.Gateway.String(),
		Status:     payment.StatusPending.String(),
		PaymentURL: &url,
		ExpiresAt:  p.Now.Add(payment.URLTTL),
		CreatedAt:  p.Now,
	}
}

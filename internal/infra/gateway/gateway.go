package gateway

import (
	"context"
	"time"

	"resihub/internal/domain/payment"
	"resihub/internal/pkg/errs"
)

var (
	ErrUnavailable      = errs.New("payment gateway unavailable")
	ErrUnknownGateway   = errs.New("unknown payment gateway")
	ErrInvalidSignature = errs.New("invalid webhook signature")
	ErrGatewayRejected  = errs.New("gateway rejected create-payment request")
)

// CreatePaymentInput carries everything a provider needs to issue a
// redirect URL for one transaction.
type CreatePaymentInput struct {
	TxnRef    string
	Amount    int64
	OrderInfo string
}

// WebhookResult is the provider-neutral reading of a verified webhook
// payload. Succeeded reflects the provider's business result code, not
// signature validity; signature checks happen before parsing.
type WebhookResult struct {
	OrderRef      string
	TransactionID string
	ResponseCode  string
	Succeeded     bool
	PaidAt        time.Time
}

// Gateway is implemented once per external payment provider. An instance
// constructed with empty credentials reports Available() false and fails
// CreatePayment without touching any local state.
type Gateway interface {
	Kind() payment.GatewayKind
	Available() bool
	CreatePayment(ctx context.Context, in CreatePaymentInput) (string, error)
	VerifySignature(payload map[string]string) bool
	ParseResult(payload map[string]string) WebhookResult
}

// Registry resolves a gateway by kind for the reconciliation engine.
type Registry struct {
	gateways map[payment.GatewayKind]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	m := make(map[payment.GatewayKind]Gateway, len(gateways))
	for _, g := range gateways {
		m[g.Kind()] = g
	}
	return &Registry{gateways: m}
}

func (r *Registry) Get(kind payment.GatewayKind) (Gateway, error) {
	g, ok := r.gateways[kind]
	if !ok {
		return nil, ErrUnknownGateway
	}
	return g, nil
}

package payment

// Status of a payment transaction. A transaction is written once per
// attempt and only ever moves PENDING -> SUCCESS or PENDING -> FAILED.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

// GatewayKind identifies how a transaction settles. Direct is the
// simplified in-person flow recorded when staff mark a booking paid.
type GatewayKind string

const (
	GatewayMoMo   GatewayKind = "momo"
	GatewayVNPay  GatewayKind = "vnpay"
	GatewayDirect GatewayKind = "direct"
)

func (g GatewayKind) String() string {
	return string(g)
}

func (g GatewayKind) IsValid() bool {
	switch g {
	case GatewayMoMo, GatewayVNPay, GatewayDirect:
		return true
	default:
		return false
	}
}

// DefaultCurrency is a fixed tag on every transaction; there is no
// conversion anywhere in this service.
const DefaultCurrency = "VND"

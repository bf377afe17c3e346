package payment

import (
	"time"

	"github.com/google/uuid"
)

// URLTTL is how long a generated payment URL stays payable.
const URLTTL = 15 * time.Minute

// Transaction is one payment attempt against a target. It is created by the
// reconciliation engine, mutated only by it, and never deleted: failed
// attempts stay behind for audit, retries create fresh rows with an
// incremented retry count.
type Transaction struct {
	id         uuid.UUID
	txnRef     string
	target     Target
	payerID    uuid.UUID
	amount     int64
	currency   string
	gateway    GatewayKind
	status     Status
	expiresAt  time.Time
	retryCount int32
	createdAt  time.Time
	updatedAt  time.Time
}

func NewTransaction(target Target, payerID uuid.UUID, amount int64, gateway GatewayKind, retryCount int32, now time.Time) *Transaction {
	return &Transaction{
		id:         uuid.New(),
		txnRef:     NewTxnRef(target, now),
		target:     target,
		payerID:    payerID,
		amount:     amount,
		currency:   DefaultCurrency,
		gateway:    gateway,
		status:     StatusPending,
		expiresAt:  now.Add(URLTTL),
		retryCount: retryCount,
	}
}

func (t *Transaction) ID() uuid.UUID        { return t.id }
func (t *Transaction) TxnRef() string       { return t.txnRef }
func (t *Transaction) Target() Target       { return t.target }
func (t *Transaction) PayerID() uuid.UUID   { return t.payerID }
func (t *Transaction) Amount() int64        { return t.amount }
func (t *Transaction) Currency() string     { return t.currency }
func (t *Transaction) Gateway() GatewayKind { return t.gateway }
func (t *Transaction) Status() Status       { return t.status }
func (t *Transaction) ExpiresAt() time.Time { return t.expiresAt }
func (t *Transaction) RetryCount() int32    { return t.retryCount }
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time { return t.updatedAt }

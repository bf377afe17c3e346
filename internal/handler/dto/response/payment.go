package response

import (
	"time"

	"resihub/internal/usecase/commands"
	"resihub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CreatePaymentResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	TxnRef        string    `json:"txnRef"`
	PaymentURL    string    `json:"paymentUrl"`
	Amount        int64     `json:"amount"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type PaymentResponse struct {
	ID           uuid.UUID  `json:"id"`
	TxnRef       string     `json:"txnRef"`
	TargetType   string     `json:"targetType"`
	TargetID     uuid.UUID  `json:"targetId"`
	PayerID      uuid.UUID  `json:"payerId"`
	Amount       int64      `json:"amount"`
	Currency     string     `json:"currency"`
	Gateway      string     `json:"gateway"`
	Status       string     `json:"status"`
	PaymentURL   *string    `json:"paymentUrl,omitempty"`
	GatewayTxnID *string    `json:"gatewayTxnId,omitempty"`
	ResponseCode *string    `json:"gatewayResponseCode,omitempty"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	RetryCount   int32      `json:"retryCount"`
	PayDate      *time.Time `json:"payDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func FromCreatePaymentResult(res *commands.CreatePaymentResult) *CreatePaymentResponse {
	return &CreatePaymentResponse{
		TransactionID: res.TransactionID,
		TxnRef:        res.TxnRef,
		PaymentURL:    res.PaymentURL,
		Amount:        res.Amount,
		ExpiresAt:     res.ExpiresAt,
	}
}

func FromPaymentView(rm *queries.PaymentView) *PaymentResponse {
	var resp PaymentResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

package request

import (
	"resihub/internal/domain/payment"
	"resihub/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreatePaymentRequest struct {
	TargetType string    `json:"target_type" binding:"required,oneof=BOOKING INVOICE"`
	TargetID   uuid.UUID `json:"target_id" binding:"required"`
	Gateway    string    `json:"gateway" binding:"required,oneof=momo vnpay"`
}

func (r CreatePaymentRequest) ToCommand() (commands.CreatePaymentRequest, error) {
	targetType, err := payment.ParseTargetType(r.TargetType)
	if err != nil {
		return commands.CreatePaymentRequest{}, err
	}
	return commands.CreatePaymentRequest{
		TargetType: targetType,
		TargetID:   r.TargetID,
		Gateway:    payment.GatewayKind(r.Gateway),
	}, nil
}

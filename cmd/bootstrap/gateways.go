package bootstrap

import (
	"resihub/internal/infra/gateway"
	"resihub/internal/pkg/clock"
	"resihub/internal/pkg/config"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateways",
	fx.Provide(
		NewMoMoGateway,
		NewVNPayGateway,
		NewGatewayRegistry,
	),
)

func NewMoMoGateway(cfg config.Config) *gateway.MoMo {
	return gateway.NewMoMo(cfg.MoMo)
}

func NewVNPayGateway(cfg config.Config, clk clock.Clock) *gateway.VNPay {
	return gateway.NewVNPay(cfg.VNPay, clk)
}

func NewGatewayRegistry(momo *gateway.MoMo, vnpay *gateway.VNPay) *gateway.Registry {
	return gateway.NewRegistry(momo, vnpay)
}

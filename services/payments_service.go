package services

import (
	"context"

	"vendpay/entity"
)

// Payments orchestrates payment, inquiry and refund runs against the
// configured providers. Every returned PaymentResult is a terminal,
// classified outcome; transport faults never escape as raw errors.
type Payments interface {
	PayWallet(ctx context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error)
	PayGateway(ctx context.Context, request *entity.PaymentRequest) (*entity.PaymentResult, error)
	Inquire(ctx context.Context, channelId, channelSecret, orderId string, sandbox bool) (*entity.PaymentResult, error)
	Refund(ctx context.Context, request *entity.RefundRequest) (*entity.PaymentResult, error)
}

// Package entity defines data models for the vendpay service.
package entity

// PaymentRequest is an inbound payment request from a vending machine.
// Test selects the provider environment explicitly: 1 = sandbox, 0 = production.
type PaymentRequest struct {
	Key     string `json:"key"`
	Machine string `json:"machine"`
	Barcode string `json:"barcode"`
	Amount  int    `json:"amount"`
	PayWay  string `json:"payway"`
	Test    int    `json:"test"`
}

// Sandbox reports whether the request targets the provider's sandbox environment.
func (r *PaymentRequest) Sandbox() bool {
	return r.Test == 1
}

// RefundRequest is an inbound refund request keyed by the provider transaction id
// of the original payment.
type RefundRequest struct {
	Key           string `json:"key"`
	Machine       string `json:"machine"`
	TransactionId string `json:"transactionId"`
	RefundAmount  int    `json:"refundAmount"`
	Test          int    `json:"test"`
}

// Sandbox reports whether the refund targets the provider's sandbox environment.
func (r *RefundRequest) Sandbox() bool {
	return r.Test == 1
}

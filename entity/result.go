package entity

import "encoding/json"

// Outcome statuses of one payment run. Every terminal run maps to exactly one.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusTimeout  = "timeout"
	StatusError    = "error"
	StatusNotFound = "not found"
	// StatusBarcode is returned for invalid barcodes before any network call.
	StatusBarcode = "barcode error"
)

// Provider and sentinel return codes.
const (
	// CodeSuccess is the wallet provider's only success code.
	CodeSuccess = "0000"
	// CodeTransport marks transport errors, timeouts and double timeouts.
	CodeTransport = "9999"
	// CodeNoChannel marks missing or unresolvable payment credentials.
	CodeNoChannel = "9998"
	// CodeNotFound is the wallet provider's transaction-not-found code,
	// usually an environment mismatch between payment and refund.
	CodeNotFound = "1150"
)

// ProviderResponse is the decoded reply of a payment provider.
// Raw carries the full decoded body; the orchestrator, not the adapter,
// interprets ReturnCode.
type ProviderResponse struct {
	ReturnCode    string          `json:"returnCode"`
	ReturnMessage string          `json:"returnMessage"`
	Raw           json.RawMessage `json:"-"`
}

// PaymentResult is the structured outcome returned to callers.
// Warning reports secondary problems, such as a failed ledger write,
// without overturning the decided payment outcome.
type PaymentResult struct {
	Status  string          `json:"status"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

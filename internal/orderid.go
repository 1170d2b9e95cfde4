package internal

import "time"

// MintOrderId builds the provider-facing order identifier from a
// second-precision timestamp, the payment-way token and the machine id.
// Pure function; the orchestrator mints it exactly once per run and reuses
// the value for the submission and any fallback inquiry.
//
// Identifiers for the same machine and payment way can collide within one
// second; the format is fixed by the providers' order-id expectations.
func MintOrderId(payway, machine string, now time.Time) string {
	return now.Format("20060102150405") + payway + machine
}

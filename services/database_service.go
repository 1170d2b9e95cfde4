package services

import (
	"context"

	"vendpay/entity"
)

// Database is the persistence contract of the service: an append-only
// transaction ledger plus a sink for log records. No reads, updates or
// deletes are in scope.
type Database interface {
	WriteLogMessage(data Data) error

	SaveTransaction(ctx context.Context, record *entity.TransactionRecord) error

	Close(ctx context.Context) error
}

type Data interface {
	DataType() string
}

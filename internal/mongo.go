package internal

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vendpay/config"
	"vendpay/entity"
	"vendpay/services"
)

const (
	collectionLog          = "payment_log"
	collectionTransactions = "transactions"
)

// MongoDB is the storage backend for the transaction ledger and log records.
// A single connected client is shared by all concurrent runs; the driver
// pools connections internally. Close must be called on shutdown.
type MongoDB struct {
	client   *mongo.Client
	database string
}

// NewMongoClient connects to MongoDB using the service configuration.
// Returns nil without error when MongoDB is disabled.
func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &MongoDB{
		client:   client,
		database: conf.Mongo.Database,
	}, nil
}

// SaveTransaction appends one ledger record. Insert only; records are never
// updated or deleted.
func (m *MongoDB) SaveTransaction(ctx context.Context, record *entity.TransactionRecord) error {
	collection := m.client.Database(m.database).Collection(collectionTransactions)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert transaction record: %w", err)
	}
	return nil
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	collection := m.client.Database(m.database).Collection(collectionLog)
	_, err := collection.InsertOne(context.Background(), data)
	return err
}

// Close disconnects the shared client. After Close the instance is unusable.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

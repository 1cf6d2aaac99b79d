package mongodbinfra

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ClientWrapper holds a connected client and the database used by the repositories.
type ClientWrapper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewClient connects and pings the primary.
func NewClient(ctx context.Context, uri, database string, poolSize uint64) (*ClientWrapper, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri)
	if poolSize > 0 {
		opts.SetMaxPoolSize(poolSize)
	}

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	log.Printf("[mongodb] connected (database: %s)", database)
	return &ClientWrapper{Client: client, Database: client.Database(database)}, nil
}

func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return cw.Client.Disconnect(ctx)
}

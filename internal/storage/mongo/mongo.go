// Package mongo implements the submission record store on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/contactrelay/contact-api/internal/config"
	apperrors "github.com/contactrelay/contact-api/internal/errors"
	"github.com/contactrelay/contact-api/internal/logger"
)

const submissionsCollection = "submissions"

type Storage struct {
	client      *mongo.Client
	submissions *mongo.Collection
}

// New connects, pings, and returns a Storage owning the shared client.
// The client is process-scoped: opened here, closed via Cleanup at
// shutdown.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to record store")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Private.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	logger.Log.Info("connected to record store", "database", cfg.Private.MongoDatabase)
	return &Storage{
		client:      client,
		submissions: client.Database(cfg.Private.MongoDatabase).Collection(submissionsCollection),
	}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Cleanup(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// Connect dials Mongo and pings it with exponential backoff until it
// answers or maxElapsed passes.
func Connect(ctx context.Context, uri string, maxElapsed time.Duration, log *zap.Logger) (*mongo.Client, error) {
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return mc.Ping(pctx, readpref.Primary())
	}
	notify := func(err error, d time.Duration) {
		log.Warn("mongo ping failed, retrying", zap.Error(err), zap.Duration("backoff", d))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, err
	}
	return mc, nil
}

// EnsureIndexes creates the indexes the queries in this package rely on.
func EnsureIndexes(ctx context.Context, posts, stories *mongo.Collection) error {
	if _, err := posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return err
	}
	_, err := stories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.ErrNotFound
	}
	return err
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

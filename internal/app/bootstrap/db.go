// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/nurseryhome/internal/app/system/indexes"
	"github.com/dalemusser/nurseryhome/internal/app/system/roomcache"
	"github.com/dalemusser/nurseryhome/internal/app/system/timeouts"
	"github.com/dalemusser/nurseryhome/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and, when configured, to the Redis room
// cache. Redis is optional: a failed dial is logged and the roster falls
// back to the backend for every room.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		NurseryHomeMongoClient:   client,
		NurseryHomeMongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		rc, err := roomcache.Dial(pingCtx, appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB, appCfg.RoomCacheTTL)
		if err != nil {
			logger.Warn("room cache unavailable; continuing without it",
				zap.String("redis_addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			deps.RoomCache = rc
			logger.Info("connected to room cache", zap.String("redis_addr", appCfg.RedisAddr))
		}
	}

	return deps, nil
}

// EnsureSchema applies collection validators and indexes for the
// collections this app owns.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.NurseryHomeMongoDatabase
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("collection validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}

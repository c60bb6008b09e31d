// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down DB connections and other resources.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.RoomCache != nil {
		if err := deps.RoomCache.Close(); err != nil {
			logger.Warn("room cache close failed", zap.Error(err))
		}
	}
	if deps.NurseryHomeMongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.NurseryHomeMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}

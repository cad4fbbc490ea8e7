// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB when selections are stored there. The cookie
// and memory stores need no database.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{Services: &Services{}}
	if appCfg.SelectionStore != StoreMongo {
		logger.Info("no database needed", zap.String("selection_store", appCfg.SelectionStore))
		return deps, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, timeouts.Ping())
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	return deps, nil
}

// EnsureSchema creates the selection indexes when MongoDB is in use.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	b := selections.NewMongoBackend(deps.MongoDatabase, selections.DefaultVisitorCookie, appCfg.SessionDomain, coreCfg.Env == "prod", logger)
	if err := b.EnsureIndexes(ctx); err != nil {
		logger.Error("ensure selection indexes failed", zap.Error(err))
		return err
	}
	return nil
}

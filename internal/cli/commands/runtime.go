package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nbgrade/internal/compiler"
	"nbgrade/internal/config"
	"nbgrade/internal/logging"
	"nbgrade/internal/storage"
)

// runtime holds the dependencies that can only be built once the
// configuration is loaded.
type runtime struct {
	config *config.Config
	logger *zap.Logger
	mysql  *storage.MySQLStorage
}

func newRuntime(cfg *config.Config) *runtime {
	return &runtime{config: cfg, logger: zap.NewNop()}
}

// init loads the configuration and builds the logger.
func (rt *runtime) init(flags config.Flags) error {
	if err := rt.config.Apply(flags); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(rt.config.LogLevel)
	if err != nil {
		return err
	}
	rt.logger = logger
	rt.logger.Debug("config loaded",
		zap.String("workdir", rt.config.WorkDir),
		zap.String("assignment", rt.config.Assignment),
		zap.String("part", rt.config.PartID))
	return nil
}

func (rt *runtime) compiler() *compiler.Compiler {
	return compiler.New(rt.config.Manifest.AllowedImports, rt.logger.Named("compiler"))
}

// history returns the MySQL store when a DSN is configured, nil otherwise.
func (rt *runtime) history(ctx context.Context) (*storage.MySQLStorage, error) {
	if rt.config.MySQLDSN == "" {
		return nil, nil
	}
	if rt.mysql == nil {
		st, err := storage.OpenMySQL(ctx, rt.config.MySQLDSN)
		if err != nil {
			return nil, err
		}
		rt.mysql = st
	}
	return rt.mysql, nil
}

// storage returns the last-run JSON file, fanned out to MySQL when configured.
func (rt *runtime) storage(ctx context.Context) (storage.Storage, error) {
	js := storage.NewJSONStorage(rt.config)
	db, err := rt.history(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return js, nil
	}
	return storage.Multi{js, db}, nil
}

func (rt *runtime) close() {
	if rt.mysql != nil {
		if err := rt.mysql.Close(); err != nil {
			rt.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

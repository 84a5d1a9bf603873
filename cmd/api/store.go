package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mantenimiento-api/internal/application/ledger"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/memory"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// stockStore TxRunner + repositorios sin transacción del adaptador elegido.
type stockStore struct {
	tx    ledger.TxRunner
	repos ledger.Repositories
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stockStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &stockStore{
			tx:    postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
			repos: postgres.NewRepositories(pool),
			close: pool.Close,
		}, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("almacenamiento SQLite embebido")
		return &stockStore{
			tx:    sqlite.NewTxRunner(db),
			repos: sqlite.NewRepositories(db),
			close: func() { _ = db.Close() },
		}, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stockStore{tx: s, repos: s.Repositories(), close: func() {}}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Store.Driver)
}

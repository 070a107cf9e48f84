// Package storage selects the persistence backend for accounts and ledgers.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/config"
	"github.com/MrJamesThe3rd/chaibook/internal/database"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/storage/file"
	"github.com/MrJamesThe3rd/chaibook/internal/storage/postgres"
	"github.com/MrJamesThe3rd/chaibook/internal/storage/sqlite"
)

// Backend stores both the credential store and every vendor ledger.
type Backend interface {
	account.Repository
	ledger.Repository
	Close() error
}

var (
	_ Backend = (*file.Store)(nil)
	_ Backend = (*postgres.Store)(nil)
	_ Backend = (*sqlite.Store)(nil)
)

func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		s, err := file.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}

		slog.Info("using file storage", "dir", cfg.Storage.DataDir)

		return s, nil
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		slog.Info("using postgres storage", "host", cfg.DB.Host, "database", cfg.DB.Name)

		return postgres.New(db), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLite.Path, cfg.SQLite.LogSQL)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		slog.Info("using sqlite storage", "path", cfg.SQLite.Path)

		return s, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

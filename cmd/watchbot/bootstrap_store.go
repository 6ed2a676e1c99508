package main

import (
	"context"
	"database/sql"
	"fmt"

	config "github.com/NordCoder/Pingwatch/internal/config/watchbot"
	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/NordCoder/Pingwatch/internal/obs/retry"
	pg "github.com/NordCoder/Pingwatch/internal/repository/postgres"
	"github.com/NordCoder/Pingwatch/internal/repository/sqlite"
	"github.com/NordCoder/Pingwatch/migrations"
	"go.uber.org/zap"
)

type store struct {
	repo    watch.Repo
	ping    func(context.Context) error
	sql     *sql.DB
	dialect string
	close   func()
}

func initStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (*store, error) {
	var st *store
	err := retry.Do(ctx, func() error {
		s, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		st = s
		return nil
	}, retry.DefaultBootstrapPolicy("store", l))
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := migrations.Up(st.sql, st.dialect); err != nil {
			st.close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		l.Info("migrations applied", zap.String("dialect", st.dialect))
	}
	return st, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		db, err := pg.NewDB(ctx, cfg.DB.Postgres)
		if err != nil {
			return nil, err
		}
		sqlDB := db.SQL()
		return &store{
			repo:    pg.NewWatchRepo(db),
			ping:    db.Ping,
			sql:     sqlDB,
			dialect: migrations.DialectPostgres,
			close: func() {
				_ = sqlDB.Close()
				db.Close()
			},
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.DB.SQLite)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:    sqlite.NewWatchRepo(db),
			ping:    db.Ping,
			sql:     db.SQL,
			dialect: migrations.DialectSQLite,
			close:   db.Close,
		}, nil
	default:
		return nil, config.ErrUnknownDriver
	}
}

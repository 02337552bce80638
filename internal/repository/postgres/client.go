package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/repository/postgres/migrations"
	"github.com/kadankyi1/amforex/internal/util"
)

// ErrNotFound is returned by lookups when no row matches. Services translate
// it into their own sentinel errors.
var ErrNotFound = errors.New("not found")

type Client struct {
	DB     *sql.DB
	config *config.PostgresConfig
}

func NewClient(cfg *config.Config) (*Client, error) {
	pgConfig := cfg.Postgres

	db, err := sql.Open("pgx", pgConfig.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(pgConfig.MaxOpenConns)
	db.SetMaxIdleConns(pgConfig.MaxIdleConns)
	db.SetConnMaxLifetime(pgConfig.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	util.Info("Postgres client initialized",
		util.Int("max_open_conns", pgConfig.MaxOpenConns),
		util.Int("max_idle_conns", pgConfig.MaxIdleConns))

	return &Client{DB: db, config: &pgConfig}, nil
}

func (c *Client) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, c.DB, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	util.Info("Database migrations applied")
	return nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			util.Error("failed to close postgres connection", util.ErrorField(err))
			return err
		}
		util.Info("Postgres connection closed")
	}
	return nil
}

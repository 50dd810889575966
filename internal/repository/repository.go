package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fantamatto_bot/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrMattoNotFound    = errors.New("matto not found")
	ErrSightingNotFound = errors.New("sighting not found")
)

const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// Repository is the single persistent store. Every exported method holds the
// embedded mutex for the whole logical operation, so composite writes are
// atomic with respect to each other.
type Repository struct {
	db      *sqlx.DB
	sb      squirrel.StatementBuilderType
	dialect string
	sync.Mutex
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Transaction runs t inside a database transaction. Callers hold the mutex.
func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `mapstructure:"driver" validate:"oneof=sqlite3 pgx postgres"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func New(cfg Config) (*Repository, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var placeholder squirrel.PlaceholderFormat = squirrel.Dollar
	if cfg.Driver == DriverSQLite {
		// :memory: databases live per connection, and sqlite serialises writers anyway.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		placeholder = squirrel.Question
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(30 * time.Minute)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{
		db:      db,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		dialect: cfg.Driver,
	}

	if err := r.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", cfg.Driver))

	return r, nil
}

// DataSourceName builds the driver specific DSN.
func (c *Config) DataSourceName() string {
	if c.Driver == DriverSQLite || c.Driver == "" {
		path := c.Path
		if path == "" {
			path = "bot_matti.db"
		}
		return path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return c.GetDatabaseURL()
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/feira-troca/backend/config"
	"github.com/feira-troca/backend/store"
	"github.com/feira-troca/backend/store/gormstore"
	"github.com/feira-troca/backend/store/memstore"
	"github.com/feira-troca/backend/store/mongostore"
)

// Open connects the configured storage driver and returns the store handle.
// The caller owns the handle and must Close it.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		return memstore.New(), nil
	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, cfg.Mongo.Database, mongostore.Options{
			Transactions: cfg.Mongo.Transactions,
		}), nil
	default:
		db, err := OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		return gormstore.New(db), nil
	}
}

// Dialector picks the GORM driver for a SQL storage driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		dsn := cfg.Storage.DSN
		if dsn == "" {
			dsn = cfg.MySQL.DSN()
		}
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.Storage.DSN), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Storage.DSN), nil
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Storage.Driver)
	}
}

// OpenGorm opens a GORM connection for the mysql, postgres and sqlite drivers.
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Storage.Driver, err)
	}

	if cfg.Storage.Driver == config.DriverSQLite {
		// SQLite allows one writer, and every ":memory:" connection is a
		// separate empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Infof("✅ Connected to %s database", cfg.Storage.Driver)
	return db, nil
}

// Migrate prepares tables or indexes when the backend needs it.
func Migrate(ctx context.Context, s store.Store) error {
	m, ok := s.(store.Migrator)
	if !ok {
		return nil
	}
	if err := m.Migrate(ctx); err != nil {
		return err
	}
	log.Info("✅ Database migrated successfully")
	return nil
}

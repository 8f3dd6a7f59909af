package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feira-troca/backend/config"
	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store/gormstore"
	"github.com/feira-troca/backend/store/memstore"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, s)
	assert.NoError(t, Migrate(context.Background(), s))
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "feira.db"),
	}}

	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })

	require.NoError(t, Migrate(ctx, s))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Items().Create(ctx, &models.Item{Name: "Tomato", Owner: "Alice"}))

	items, err := s.Items().List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOpenSQLiteInMemorySharesOneDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverSQLite, DSN: ":memory:"}}

	db, err := OpenGorm(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	s := gormstore.New(db)
	require.NoError(t, s.Migrate(ctx))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Items().Create(ctx, &models.Item{Name: "Tomato", Owner: "Alice"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := s.Items().List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 8)
}

func TestDialectorRejectsNonSQLDrivers(t *testing.T) {
	_, err := Dialector(&config.Config{Storage: config.StorageConfig{Driver: config.DriverMongo}})
	assert.Error(t, err)
}

func TestDialectorBuildsMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMySQL},
		MySQL:   config.MySQLConfig{Host: "db", Port: 3306, User: "root", Database: "feira"},
	}
	d, err := Dialector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
}

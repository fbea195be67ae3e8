package db

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"storefront/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenSqliteCreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	conn, err := Open(DriverSqlite, path, zerolog.Nop())
	require.NoError(t, err)
	sqlDB, _ := conn.DB()
	defer sqlDB.Close()

	require.NoError(t, Migrate(conn))
	// second run must be a no-op
	require.NoError(t, Migrate(conn))

	for _, table := range []string{"brands", "categories", "products", "users", "addresses", "orders", "order_items"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.FileExists(t, path)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever", zerolog.Nop())
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "store.db?_foreign_keys=on", withForeignKeys("store.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "store.db?_fk=1", withForeignKeys("store.db?_fk=1"))
}

func TestQueryLogGoesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	conn, err := Open(DriverSqlite, "file:querylog?mode=memory&cache=shared", zerolog.New(&buf))
	require.NoError(t, err)
	sqlDB, _ := conn.DB()
	defer sqlDB.Close()
	require.NoError(t, Migrate(conn))

	var p models.Product
	err = conn.First(&p, 12345).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, buf.String(), "missing rows are not logged")

	var n int64
	require.Error(t, conn.Table("no_such_table").Count(&n).Error)
	assert.Contains(t, buf.String(), "no_such_table")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}

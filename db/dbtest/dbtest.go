// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"storefront/db"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated, empty in-memory sqlite database that is closed
// when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSqlite, "file:"+uuid.NewString()+"?mode=memory&cache=shared", zerolog.Nop())
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return conn
}

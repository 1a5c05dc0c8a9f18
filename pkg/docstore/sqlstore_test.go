package docstore

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Test_SQLStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)

		// A single connection keeps the in-memory database coherent and
		// serializes concurrent transactions instead of failing them.
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)

		store, err := NewSQLStore(db)
		require.NoError(t, err)

		// The shared in-memory database outlives a single gorm handle, so
		// every subtest starts from an empty table.
		require.NoError(t, db.Exec("DELETE FROM documents").Error)
		return store
	})
}

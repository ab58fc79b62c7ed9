package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/models"
	"github.com/ranznz/wage-survey/pkg/crypto"
)

// openMigratedDB opens a fresh in-memory database scoped to one test. The
// shared-cache memory DSN lives until its last connection closes, so each
// test must close its handle to avoid leaking state into the next.
func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openMigratedDB(t)

	for _, table := range []string{"users", "survey_submissions", "survey_rates"} {
		require.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestSeedBootstrapUser(t *testing.T) {
	db := openMigratedDB(t)

	bootstrap := BootstrapUser{Email: "Staff@RANZ.org.nz", Password: "initial-pass"}
	require.NoError(t, SeedBootstrapUser(db, bootstrap))

	var user models.User
	require.NoError(t, db.Take(&user, "email = ?", "staff@ranz.org.nz").Error)
	require.True(t, user.MustChangePassword)
	require.True(t, crypto.VerifyPassword(user.PasswordHash, "initial-pass"))

	// Seeding again must not duplicate or overwrite the account.
	require.NoError(t, SeedBootstrapUser(db, bootstrap))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSeedBootstrapUserSkipsEmptyConfig(t *testing.T) {
	db := openMigratedDB(t)

	require.NoError(t, SeedBootstrapUser(db, BootstrapUser{}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

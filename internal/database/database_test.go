package database

import (
	"testing"

	"blogapp/internal/config"
	"blogapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: NewGormLogger()})
	require.NoError(t, err)
	return db
}

func TestConfigurePool(t *testing.T) {
	db := openMemory(t)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: "sqlite", DBSQLitePath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: "postgres", DBHost: "localhost", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openMemory(t)

	before, err := SchemaStatus(db)
	require.NoError(t, err)
	for _, s := range before {
		assert.False(t, s.Exists, s.Table)
	}

	require.NoError(t, Migrate(db))

	after, err := SchemaStatus(db)
	require.NoError(t, err)
	require.Len(t, after, len(PersistentModels()))
	for _, s := range after {
		assert.True(t, s.Exists, s.Table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.PostLike{}, "created_at"))
}

func TestMigrate_LikeJoinIsUnique(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&models.PostLike{PostID: 1, UserID: 1}).Error)
	assert.Error(t, db.Create(&models.PostLike{PostID: 1, UserID: 1}).Error)
}

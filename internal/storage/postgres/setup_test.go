package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Disable logs during tests
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Job{},
		&models.QueueStatusRecord{},
		&models.Movie{},
		&models.Genre{},
		&models.MovieGenre{},
		&models.FavoriteMovie{},
		&models.Recommendation{},
	)
	require.NoError(t, err)

	return db
}

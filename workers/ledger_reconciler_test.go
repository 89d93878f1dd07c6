package workers

import (
	"context"
	"testing"

	"learning-reward-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ActivityProgress{},
		&models.WatchedVideo{},
		&models.QuizResult{},
		&models.Response{},
	))
	return db
}

func TestReconcileAll_CorrectsDriftedCounters(t *testing.T) {
	db := newTestDB(t)
	r := NewLedgerReconciler(db)

	// Ledger claims 5 videos watched; only 2 watch rows actually exist.
	require.NoError(t, db.Create(&models.ActivityProgress{
		ID:             uuid.NewString(),
		ExternalUserID: "u1",
		VideosWatched:  5,
		QuizzesPassed:  0,
	}).Error)
	for _, video := range []string{"v1", "v2"} {
		require.NoError(t, db.Create(&models.WatchedVideo{
			ID:             uuid.NewString(),
			ExternalUserID: "u1",
			VideoBlogID:    video,
		}).Error)
	}
	require.NoError(t, db.Create(&models.QuizResult{
		ID:             uuid.NewString(),
		ExternalUserID: "u1",
		QuizID:         uuid.NewString(),
	}).Error)

	require.NoError(t, r.ReconcileAll(context.Background()))

	var prog models.ActivityProgress
	require.NoError(t, db.Where("external_user_id = ?", "u1").First(&prog).Error)
	assert.Equal(t, int64(2), prog.VideosWatched)
	assert.Equal(t, int64(1), prog.QuizzesPassed)
	assert.Equal(t, int64(0), prog.ResponsesSubmitted)
}

func TestReconcileAll_LeavesAccurateLedgersAlone(t *testing.T) {
	db := newTestDB(t)
	r := NewLedgerReconciler(db)

	require.NoError(t, db.Create(&models.ActivityProgress{
		ID:             uuid.NewString(),
		ExternalUserID: "u1",
		VideosWatched:  1,
	}).Error)
	require.NoError(t, db.Create(&models.WatchedVideo{
		ID:             uuid.NewString(),
		ExternalUserID: "u1",
		VideoBlogID:    "v1",
	}).Error)

	require.NoError(t, r.ReconcileAll(context.Background()))

	var prog models.ActivityProgress
	require.NoError(t, db.Where("external_user_id = ?", "u1").First(&prog).Error)
	assert.Equal(t, int64(1), prog.VideosWatched)
}

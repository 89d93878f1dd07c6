package services

import (
	"fmt"
	"testing"

	"learning-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. A single
// connection keeps sqlite from returning busy errors under the
// concurrency tests while gorm transactions still interleave.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.PlatformUser{},
		&models.Jeton{},
		&models.CardInfo{},
		&models.UserJeton{},
		&models.ActivityProgress{},
		&models.WatchedVideo{},
		&models.Questionnaire{},
		&models.Question{},
		&models.Variant{},
		&models.Response{},
		&models.QuestionAnswer{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizOption{},
		&models.QuizResult{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, externalID string) {
	t.Helper()
	user := models.PlatformUser{
		ID:             uuid.NewString(),
		ExternalUserID: externalID,
		Username:       "user-" + externalID,
		Email:          externalID + "@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", externalID, err)
	}
}

func seedJeton(t *testing.T, db *gorm.DB, title string, kind models.JetonType, threshold int64) models.Jeton {
	t.Helper()
	jeton := models.Jeton{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   "test jeton",
		Type:          kind,
		QuantityToGet: threshold,
	}
	if err := db.Create(&jeton).Error; err != nil {
		t.Fatalf("failed to seed jeton %s: %v", title, err)
	}
	return jeton
}

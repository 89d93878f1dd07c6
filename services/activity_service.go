// services/activity_service.go
package services

import (
	"errors"
	"log"

	"learning-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityService struct {
	DB     *gorm.DB
	Jetons *JetonService
}

func NewActivityService(db *gorm.DB, jetons *JetonService) *ActivityService {
	return &ActivityService{DB: db, Jetons: jetons}
}

// EnsureProgress ensures an ActivityProgress ledger row exists (idempotent).
func (s *ActivityService) EnsureProgress(externalUserID string) (*models.ActivityProgress, error) {
	var prog models.ActivityProgress
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = models.ActivityProgress{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
		}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&prog).Error; err != nil {
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// RecordVideoWatched marks a video as watched once, bumps the ledger and
// feeds the updated count into the reward engine. A rewatch is a no-op that
// still reports the user's current state.
func (s *ActivityService) RecordVideoWatched(externalUserID, videoBlogID string) (*models.Jeton, bool, error) {
	var userCount int64
	if err := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", externalUserID).
		Count(&userCount).Error; err != nil {
		return nil, false, err
	}
	if userCount == 0 {
		return nil, false, ErrUserNotFound
	}

	var watched int64
	var recorded bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.WatchedVideo{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			VideoBlogID:    videoBlogID,
		})
		if res.Error != nil {
			return res.Error
		}
		recorded = res.RowsAffected > 0
		if recorded {
			if err := bumpCounter(tx, externalUserID, "videos_watched"); err != nil {
				return err
			}
		}

		var prog models.ActivityProgress
		err := tx.Where("external_user_id = ?", externalUserID).First(&prog).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		watched = prog.CountFor(models.JetonTypeVideo)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	jeton, err := s.Jetons.AssignForActivity(externalUserID, models.JetonTypeVideo, watched)
	if err != nil {
		return nil, false, err
	}
	return jeton, recorded, nil
}

// GetProgress returns the user's ledger row, creating it when absent.
func (s *ActivityService) GetProgress(externalUserID string) (*models.ActivityProgress, error) {
	return s.EnsureProgress(externalUserID)
}

// bumpCounter increments one ledger column atomically, creating the row
// first when the user has no ledger yet.
func bumpCounter(tx *gorm.DB, externalUserID, column string) error {
	res := tx.Model(&models.ActivityProgress{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	prog := models.ActivityProgress{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&prog).Error; err != nil {
		return err
	}
	res = tx.Model(&models.ActivityProgress{}).
		Where("external_user_id = ?", externalUserID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("⚠️ Ledger bump lost for %s.%s", externalUserID, column)
	}
	return nil
}

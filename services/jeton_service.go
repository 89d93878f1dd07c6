// services/jeton_service.go
package services

import (
	"errors"
	"log"

	"learning-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JetonService struct {
	DB *gorm.DB
}

func NewJetonService(db *gorm.DB) *JetonService {
	return &JetonService{DB: db}
}

// BestJetonFor returns the jeton of the given type with the highest
// threshold not exceeding count, or nil when the count is below every
// threshold. Read-only; safe from any number of callers.
func (s *JetonService) BestJetonFor(kind models.JetonType, count int64) (*models.Jeton, error) {
	var jeton models.Jeton
	err := s.DB.
		Where("type = ? AND quantity_to_get <= ?", kind, count).
		Order("quantity_to_get DESC").
		Preload("CardInfo").
		First(&jeton).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &jeton, nil
}

// AssignForActivity resolves the best jeton for (kind, count) and grants it
// at most once. The ledger row is locked for the whole read-check-write so
// two concurrent activity events for the same user cannot double-grant;
// the (user, jeton) unique index backstops the check.
func (s *JetonService) AssignForActivity(externalUserID string, kind models.JetonType, count int64) (*models.Jeton, error) {
	if err := s.requireUser(externalUserID); err != nil {
		return nil, err
	}

	jeton, err := s.BestJetonFor(kind, count)
	if err != nil {
		return nil, err
	}
	if jeton == nil {
		return nil, nil // below every threshold — not an error
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var prog models.ActivityProgress
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ?", externalUserID).
			First(&prog).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var possessed int64
		if err := tx.Model(&models.UserJeton{}).
			Where("external_user_id = ? AND jeton_id = ?", externalUserID, jeton.ID).
			Count(&possessed).Error; err != nil {
			return err
		}
		if possessed > 0 {
			return nil // already granted — idempotent replay, zero writes
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserJeton{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			JetonID:        jeton.ID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("🎖️ Jeton awarded: %s (%s) → %s", jeton.Title, kind, externalUserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jeton, nil
}

// AssignUnclaimedCard grants the first CARD jeton the user does not yet
// possess, regardless of threshold. Returns nil once the pool is exhausted.
func (s *JetonService) AssignUnclaimedCard(externalUserID string) (*models.Jeton, error) {
	if err := s.requireUser(externalUserID); err != nil {
		return nil, err
	}

	var granted *models.Jeton
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var card models.Jeton
		err := tx.
			Where("type = ?", models.JetonTypeCard).
			Where("id NOT IN (?)", tx.Model(&models.UserJeton{}).
				Select("jeton_id").
				Where("external_user_id = ?", externalUserID)).
			Order("created_at ASC").
			Preload("CardInfo").
			First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // pool exhausted
		}
		if err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserJeton{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			JetonID:        card.ID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // raced with an identical grant; the card is theirs either way
		}
		granted = &card
		log.Printf("🃏 Card jeton allocated: %s → %s", card.Title, externalUserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return granted, nil
}

// GetUserJetons lists the jetons a user possesses, newest first.
func (s *JetonService) GetUserJetons(externalUserID string) ([]models.UserJeton, error) {
	var owned []models.UserJeton
	err := s.DB.
		Where("external_user_id = ?", externalUserID).
		Preload("Jeton").
		Preload("Jeton.CardInfo").
		Order("awarded_at DESC").
		Find(&owned).Error
	return owned, err
}

func (s *JetonService) requireUser(externalUserID string) error {
	var count int64
	if err := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", externalUserID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

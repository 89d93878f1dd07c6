// services/quiz_service.go
package services

import (
	"errors"

	"learning-reward-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizService struct {
	DB     *gorm.DB
	Jetons *JetonService
}

func NewQuizService(db *gorm.DB, jetons *JetonService) *QuizService {
	return &QuizService{DB: db, Jetons: jetons}
}

type CreateQuizInput struct {
	Title       string                    `json:"title"`
	TitleKG     string                    `json:"title_kg"`
	VideoBlogID *string                   `json:"video_blog_id"`
	Questions   []CreateQuizQuestionInput `json:"questions"`
}

type CreateQuizQuestionInput struct {
	Text    string                  `json:"text"`
	Options []CreateQuizOptionInput `json:"options"`
}

type CreateQuizOptionInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateQuiz persists a quiz with its question/option tree in one
// transaction.
func (s *QuizService) CreateQuiz(input CreateQuizInput) (*models.Quiz, error) {
	quiz := models.Quiz{
		ID:          uuid.NewString(),
		Title:       input.Title,
		TitleKG:     input.TitleKG,
		VideoBlogID: input.VideoBlogID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for qi, questionInput := range input.Questions {
			question := models.QuizQuestion{
				ID:       uuid.NewString(),
				QuizID:   quiz.ID,
				Text:     questionInput.Text,
				Position: qi,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for oi, optionInput := range questionInput.Options {
				option := models.QuizOption{
					ID:             uuid.NewString(),
					QuizQuestionID: question.ID,
					Text:           optionInput.Text,
					Position:       oi,
					IsCorrect:      optionInput.IsCorrect,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuiz(quiz.ID)
}

// GetQuiz loads a quiz with questions and options in authored order.
func (s *QuizService) GetQuiz(id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quiz, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListQuizzes returns all quizzes with their trees.
func (s *QuizService) ListQuizzes() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// DeleteQuiz soft-deletes a quiz.
func (s *QuizService) DeleteQuiz(id string) error {
	quiz, err := s.GetQuiz(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(quiz).Error
}

// TakeQuiz records a pass once and feeds the user's quiz count into the
// reward engine. A retake records nothing but still re-evaluates the tier,
// which the engine resolves idempotently. Answer correctness is not scored.
func (s *QuizService) TakeQuiz(externalUserID, quizID string) (*models.Jeton, error) {
	var userCount int64
	if err := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", externalUserID).
		Count(&userCount).Error; err != nil {
		return nil, err
	}
	if userCount == 0 {
		return nil, ErrUserNotFound
	}

	if _, err := s.GetQuiz(quizID); err != nil {
		return nil, err
	}

	var passed int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.QuizResult{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			QuizID:         quizID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := bumpCounter(tx, externalUserID, "quizzes_passed"); err != nil {
				return err
			}
		}

		var prog models.ActivityProgress
		err := tx.Where("external_user_id = ?", externalUserID).First(&prog).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		passed = prog.CountFor(models.JetonTypeTest)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Jetons.AssignForActivity(externalUserID, models.JetonTypeTest, passed)
}

// ListResults returns the user's quiz results with quizzes preloaded.
func (s *QuizService) ListResults(externalUserID string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := s.DB.
		Where("external_user_id = ?", externalUserID).
		Preload("Quiz").
		Order("taken_at DESC").
		Find(&results).Error
	return results, err
}

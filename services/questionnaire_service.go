// services/questionnaire_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"learning-reward-system/models"
	"learning-reward-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type QuestionnaireService struct {
	DB *gorm.DB
}

func NewQuestionnaireService(db *gorm.DB) *QuestionnaireService {
	return &QuestionnaireService{DB: db}
}

// CreateQuestionnaireInput is the authoring spec: an ordered tree of
// questions and variants.
type CreateQuestionnaireInput struct {
	Name        string                `json:"name"`
	NameKG      string                `json:"name_kg"`
	Description string                `json:"description"`
	PublishAt   *time.Time            `json:"publish_at"`
	Questions   []CreateQuestionInput `json:"questions"`
}

type CreateQuestionInput struct {
	Text                string               `json:"text"`
	AnswerType          models.AnswerType    `json:"answer_type"`
	Variants            []CreateVariantInput `json:"variants"`
	CorrectVariantIndex *int                 `json:"correct_variant_index"`
}

type CreateVariantInput struct {
	Text string `json:"text"`
}

// AnswerInput is one submitted answer. Pointer fields carry presence:
// a nil SelectedIndex is "absent", a zero one is the first variant.
type AnswerInput struct {
	QuestionID      string  `json:"question_id"`
	Text            *string `json:"text"`
	SelectedIndex   *int    `json:"selected_index"`
	SelectedIndices []int   `json:"selected_indices"`
}

// CreateQuestionnaire persists the questionnaire, its questions and their
// variants in authored order inside one transaction, so a half-created
// questionnaire is never visible to readers.
func (s *QuestionnaireService) CreateQuestionnaire(input CreateQuestionnaireInput) (*models.Questionnaire, error) {
	status := models.QuestionnaireStatusPublished
	if input.PublishAt != nil {
		status = models.QuestionnaireStatusDraft
	}

	questionnaire := models.Questionnaire{
		ID:          uuid.NewString(),
		Name:        input.Name,
		NameKG:      input.NameKG,
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Status:      status,
		PublishAt:   input.PublishAt,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&questionnaire).Error; err != nil {
			return err
		}

		for qi, questionInput := range input.Questions {
			question := models.Question{
				ID:              uuid.NewString(),
				QuestionnaireID: questionnaire.ID,
				Text:            questionInput.Text,
				AnswerType:      questionInput.AnswerType,
				Position:        qi,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}

			for vi, variantInput := range questionInput.Variants {
				variant := models.Variant{
					ID:         uuid.NewString(),
					QuestionID: question.ID,
					Text:       variantInput.Text,
					Position:   vi,
				}
				if err := tx.Create(&variant).Error; err != nil {
					return err
				}

				if questionInput.AnswerType.IsChoice() &&
					questionInput.CorrectVariantIndex != nil &&
					vi == *questionInput.CorrectVariantIndex {
					question.CorrectVariantID = &variant.ID
					if err := tx.Model(&models.Question{}).
						Where("id = ?", question.ID).
						Update("correct_variant_id", variant.ID).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Questionnaire created: %s (%d questions)", questionnaire.Name, len(input.Questions))
	return s.GetQuestionnaire(questionnaire.ID)
}

// GetQuestionnaire loads a questionnaire with questions and variants in
// authored order.
func (s *QuestionnaireService) GetQuestionnaire(id string) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&questionnaire, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, err
	}
	return &questionnaire, nil
}

// ListQuestionnaires returns published questionnaires with their question
// trees. A search term matches transliterated names via the slug.
func (s *QuestionnaireService) ListQuestionnaires(search string) ([]models.Questionnaire, error) {
	q := s.DB.
		Where("status = ?", models.QuestionnaireStatusPublished).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Questions.Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC")
	if search != "" {
		// Queries come in Cyrillic or Latin; slugs are always Latin.
		term := strings.ReplaceAll(utils.SearchTerm(search), " ", "-")
		q = q.Where("slug LIKE ?", "%"+term+"%")
	}

	var questionnaires []models.Questionnaire
	err := q.Find(&questionnaires).Error
	return questionnaires, err
}

// SubmitResponse validates every answer against its question's declared
// answer type and persists the response with all answers in one
// transaction. No grading happens here: the correct-variant marker is an
// authoring-side record only.
func (s *QuestionnaireService) SubmitResponse(externalUserID, questionnaireID string, answers []AnswerInput) (*models.Response, error) {
	questionnaire, err := s.GetQuestionnaire(questionnaireID)
	if err != nil {
		return nil, err
	}

	var userCount int64
	if err := s.DB.Model(&models.PlatformUser{}).
		Where("external_user_id = ?", externalUserID).
		Count(&userCount).Error; err != nil {
		return nil, err
	}
	if userCount == 0 {
		return nil, ErrUserNotFound
	}

	questionsByID := make(map[string]*models.Question, len(questionnaire.Questions))
	for i := range questionnaire.Questions {
		questionsByID[questionnaire.Questions[i].ID] = &questionnaire.Questions[i]
	}

	response := models.Response{
		ID:              uuid.NewString(),
		ExternalUserID:  externalUserID,
		QuestionnaireID: questionnaire.ID,
	}

	questionAnswers := make([]models.QuestionAnswer, 0, len(answers))
	for _, answer := range answers {
		question, ok := questionsByID[answer.QuestionID]
		if !ok {
			return nil, ErrQuestionNotFound
		}

		qa := models.QuestionAnswer{
			ID:         uuid.NewString(),
			ResponseID: response.ID,
			QuestionID: question.ID,
			AnswerType: question.AnswerType,
		}

		switch question.AnswerType {
		case models.AnswerTypeText:
			if answer.Text == nil || *answer.Text == "" {
				return nil, &ValidationError{QuestionID: question.ID, Reason: "text required for this question"}
			}
			qa.Text = answer.Text
		case models.AnswerTypeSingleChoice, models.AnswerTypeDropDown:
			if answer.SelectedIndex == nil {
				return nil, &ValidationError{QuestionID: question.ID, Reason: "selected index required"}
			}
			if *answer.SelectedIndex < 0 || *answer.SelectedIndex >= len(question.Variants) {
				return nil, &ValidationError{QuestionID: question.ID, Reason: "selected index out of range"}
			}
			qa.SelectedIndex = answer.SelectedIndex
		case models.AnswerTypeMultiChoice:
			if len(answer.SelectedIndices) == 0 {
				return nil, &ValidationError{QuestionID: question.ID, Reason: "choices required"}
			}
			for _, idx := range answer.SelectedIndices {
				if idx < 0 || idx >= len(question.Variants) {
					return nil, &ValidationError{QuestionID: question.ID, Reason: "selected index out of range"}
				}
			}
			qa.SelectedIndices = answer.SelectedIndices
		default:
			return nil, &ValidationError{QuestionID: question.ID, Reason: "unknown answer type"}
		}

		questionAnswers = append(questionAnswers, qa)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&response).Error; err != nil {
			return err
		}
		if len(questionAnswers) > 0 {
			if err := tx.Create(&questionAnswers).Error; err != nil {
				return err
			}
		}
		return bumpCounter(tx, externalUserID, "responses_submitted")
	})
	if err != nil {
		return nil, err
	}

	response.Answers = questionAnswers
	return &response, nil
}

// ListResponses returns all responses for a questionnaire with their
// answers preloaded.
func (s *QuestionnaireService) ListResponses(questionnaireID string) ([]models.Response, error) {
	if _, err := s.GetQuestionnaire(questionnaireID); err != nil {
		return nil, err
	}

	var responses []models.Response
	err := s.DB.
		Where("questionnaire_id = ?", questionnaireID).
		Preload("Answers").
		Order("submitted_at DESC").
		Find(&responses).Error
	return responses, err
}

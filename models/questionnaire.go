package models

import (
	"time"

	"gorm.io/gorm"
)

// AnswerType fixes which answer shape is legal for a question. It is
// validated at response time, not only at authoring time.
type AnswerType string

const (
	AnswerTypeText         AnswerType = "TEXT"
	AnswerTypeSingleChoice AnswerType = "SINGLE_CHOICE"
	AnswerTypeDropDown     AnswerType = "DROP_DOWN"
	AnswerTypeMultiChoice  AnswerType = "MULTI_CHOICE"
)

// IsChoice reports whether the type selects among variants.
func (t AnswerType) IsChoice() bool {
	return t == AnswerTypeSingleChoice || t == AnswerTypeDropDown || t == AnswerTypeMultiChoice
}

// QuestionnaireStatus mirrors the draft → published lifecycle.
type QuestionnaireStatus string

const (
	QuestionnaireStatusDraft     QuestionnaireStatus = "draft"
	QuestionnaireStatusPublished QuestionnaireStatus = "published"
)

type Questionnaire struct {
	ID          string              `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	NameKG      string              `json:"name_kg,omitempty"`
	Slug        string              `gorm:"uniqueIndex;not null" json:"slug"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	Status      QuestionnaireStatus `gorm:"type:varchar(16);not null;default:'published'" json:"status"`
	PublishAt   *time.Time          `json:"publish_at,omitempty"`
	Questions   []Question          `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

type Question struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	QuestionnaireID  string     `gorm:"type:uuid;index;not null" json:"questionnaire_id"`
	Text             string     `gorm:"type:text;not null" json:"text"`
	AnswerType       AnswerType `gorm:"type:varchar(16);not null" json:"answer_type"`
	Position         int        `gorm:"not null" json:"position"`
	CorrectVariantID *string    `gorm:"type:uuid" json:"correct_variant_id,omitempty"` // recorded at authoring time; not graded on submission
	Variants         []Variant  `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

type Variant struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	QuestionID string    `gorm:"type:uuid;index;not null" json:"question_id"`
	Text       string    `gorm:"type:text" json:"text"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Response is one user's full set of answers to a questionnaire.
// Append-only; never mutated after submission.
type Response struct {
	ID              string           `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID  string           `gorm:"index;not null" json:"external_user_id"`
	QuestionnaireID string           `gorm:"type:uuid;index;not null" json:"questionnaire_id"`
	Answers         []QuestionAnswer `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	SubmittedAt     time.Time        `json:"submitted_at" gorm:"autoCreateTime"`
}

// QuestionAnswer carries exactly one populated payload field depending on
// the question's answer type. Pointer fields keep presence explicit: a
// selected index of 0 is a legitimate first-variant selection.
type QuestionAnswer struct {
	ID              string     `gorm:"primaryKey;type:uuid" json:"id"`
	ResponseID      string     `gorm:"type:uuid;index;not null" json:"response_id"`
	QuestionID      string     `gorm:"type:uuid;index;not null" json:"question_id"`
	AnswerType      AnswerType `gorm:"type:varchar(16);not null" json:"answer_type"`
	Text            *string    `gorm:"type:text" json:"text,omitempty"`
	SelectedIndex   *int       `json:"selected_index,omitempty"`
	SelectedIndices []int      `gorm:"serializer:json;type:jsonb" json:"selected_indices,omitempty"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

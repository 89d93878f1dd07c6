package services

import (
	"testing"
	"time"

	"learning-reward-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func mentorshipInput() CreateQuestionnaireInput {
	correct := 1
	return CreateQuestionnaireInput{
		Name:   "Менторство",
		NameKG: "Менторлук",
		Questions: []CreateQuestionInput{
			{
				Text:       "Что такое менторство?",
				AnswerType: models.AnswerTypeText,
			},
			{
				Text:       "Кто такой ментор?",
				AnswerType: models.AnswerTypeSingleChoice,
				Variants: []CreateVariantInput{
					{Text: "Человек который всю жизнь работал на поле"},
					{Text: "Человек который на один шаг впереди тебя"},
					{Text: "Учитель"},
				},
				CorrectVariantIndex: &correct,
			},
		},
	}
}

func TestCreateQuestionnaire_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)

	created, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)
	assert.Equal(t, "mentorstvo", created.Slug)

	listed, err := svc.ListQuestionnaires("")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	q := listed[0]
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "Что такое менторство?", q.Questions[0].Text)
	assert.Equal(t, models.AnswerTypeText, q.Questions[0].AnswerType)
	assert.Nil(t, q.Questions[0].CorrectVariantID)

	choice := q.Questions[1]
	assert.Equal(t, models.AnswerTypeSingleChoice, choice.AnswerType)
	require.Len(t, choice.Variants, 3)
	assert.Equal(t, "Человек который всю жизнь работал на поле", choice.Variants[0].Text)
	assert.Equal(t, "Человек который на один шаг впереди тебя", choice.Variants[1].Text)
	assert.Equal(t, "Учитель", choice.Variants[2].Text)
	require.NotNil(t, choice.CorrectVariantID)
	assert.Equal(t, choice.Variants[1].ID, *choice.CorrectVariantID)
}

func TestListQuestionnaires_CyrillicSearchMatchesSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)

	_, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)

	listed, err := svc.ListQuestionnaires("Ментор")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "mentorstvo", listed[0].Slug)

	listed, err = svc.ListQuestionnaires("лидерство")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCreateQuestionnaire_ScheduledStaysDraft(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)

	input := mentorshipInput()
	later := time.Now().Add(time.Hour)
	input.PublishAt = &later
	created, err := svc.CreateQuestionnaire(input)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionnaireStatusDraft, created.Status)

	listed, err := svc.ListQuestionnaires("")
	require.NoError(t, err)
	assert.Empty(t, listed, "drafts must not be listed")
}

func TestPublishDue_FlipsPastDueDraftsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)

	due := mentorshipInput()
	past := time.Now().Add(-time.Minute)
	due.PublishAt = &past
	published, err := svc.CreateQuestionnaire(due)
	require.NoError(t, err)
	require.Equal(t, models.QuestionnaireStatusDraft, published.Status)

	notYet := mentorshipInput()
	notYet.Name = "Лидерство"
	future := time.Now().Add(time.Hour)
	notYet.PublishAt = &future
	_, err = svc.CreateQuestionnaire(notYet)
	require.NoError(t, err)

	n, err := svc.PublishDue()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	listed, err := svc.ListQuestionnaires("")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, published.ID, listed[0].ID)
	assert.Equal(t, models.QuestionnaireStatusPublished, listed[0].Status)
	assert.Nil(t, listed[0].PublishAt)

	// A second run finds nothing left to flip.
	n, err = svc.PublishDue()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitResponse_PersistsTypedAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)
	seedUser(t, db, "u1")

	created, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)

	response, err := svc.SubmitResponse("u1", created.ID, []AnswerInput{
		{QuestionID: created.Questions[0].ID, Text: strPtr("Передача опыта")},
		{QuestionID: created.Questions[1].ID, SelectedIndex: intPtr(2)},
	})
	require.NoError(t, err)
	require.Len(t, response.Answers, 2)
	assert.Equal(t, "Передача опыта", *response.Answers[0].Text)
	assert.Equal(t, 2, *response.Answers[1].SelectedIndex)

	var prog models.ActivityProgress
	require.NoError(t, db.Where("external_user_id = ?", "u1").First(&prog).Error)
	assert.Equal(t, int64(1), prog.ResponsesSubmitted)
}

func TestSubmitResponse_IndexZeroIsAFirstVariantSelection(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)
	seedUser(t, db, "u1")

	created, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)

	response, err := svc.SubmitResponse("u1", created.ID, []AnswerInput{
		{QuestionID: created.Questions[0].ID, Text: strPtr("ответ")},
		{QuestionID: created.Questions[1].ID, SelectedIndex: intPtr(0)},
	})
	require.NoError(t, err, "index 0 must be accepted, not treated as absent")
	require.NotNil(t, response.Answers[1].SelectedIndex)
	assert.Equal(t, 0, *response.Answers[1].SelectedIndex)
}

func TestSubmitResponse_ValidationFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)
	seedUser(t, db, "u1")

	multi := 0
	input := mentorshipInput()
	input.Questions = append(input.Questions, CreateQuestionInput{
		Text:       "Выберите все подходящие варианты",
		AnswerType: models.AnswerTypeMultiChoice,
		Variants: []CreateVariantInput{
			{Text: "Вариант 1"},
			{Text: "Вариант 2"},
		},
		CorrectVariantIndex: &multi,
	})
	created, err := svc.CreateQuestionnaire(input)
	require.NoError(t, err)

	textQ := created.Questions[0].ID
	choiceQ := created.Questions[1].ID
	multiQ := created.Questions[2].ID

	tests := []struct {
		name   string
		answer AnswerInput
	}{
		{"empty text", AnswerInput{QuestionID: textQ, Text: strPtr("")}},
		{"missing text", AnswerInput{QuestionID: textQ}},
		{"missing selected index", AnswerInput{QuestionID: choiceQ}},
		{"negative selected index", AnswerInput{QuestionID: choiceQ, SelectedIndex: intPtr(-1)}},
		{"selected index past last variant", AnswerInput{QuestionID: choiceQ, SelectedIndex: intPtr(3)}},
		{"empty multi choice", AnswerInput{QuestionID: multiQ, SelectedIndices: []int{}}},
		{"multi choice index past last variant", AnswerInput{QuestionID: multiQ, SelectedIndices: []int{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitResponse("u1", created.ID, []AnswerInput{tt.answer})
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
		})
	}

	// A failed submission leaves nothing behind.
	var responses int64
	require.NoError(t, db.Model(&models.Response{}).Count(&responses).Error)
	assert.Zero(t, responses)
}

func TestSubmitResponse_NotFoundFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)
	seedUser(t, db, "u1")

	created, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)

	_, err = svc.SubmitResponse("u1", "00000000-0000-0000-0000-000000000000", nil)
	require.ErrorIs(t, err, ErrQuestionnaireNotFound)

	_, err = svc.SubmitResponse("ghost", created.ID, nil)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SubmitResponse("u1", created.ID, []AnswerInput{
		{QuestionID: "00000000-0000-0000-0000-000000000000", Text: strPtr("x")},
	})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestListResponses(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionnaireService(db)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	created, err := svc.CreateQuestionnaire(mentorshipInput())
	require.NoError(t, err)

	for _, userID := range []string{"u1", "u2"} {
		_, err := svc.SubmitResponse(userID, created.ID, []AnswerInput{
			{QuestionID: created.Questions[0].ID, Text: strPtr("ответ")},
			{QuestionID: created.Questions[1].ID, SelectedIndex: intPtr(1)},
		})
		require.NoError(t, err)
	}

	responses, err := svc.ListResponses(created.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	for _, r := range responses {
		assert.Len(t, r.Answers, 2)
	}

	_, err = svc.ListResponses("00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrQuestionnaireNotFound)
}

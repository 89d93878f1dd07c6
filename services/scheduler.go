// services/scheduler.go
package services

import (
	"log"
	"time"

	"learning-reward-system/models"

	"github.com/go-co-op/gocron/v2"
)

// PublishDue flips every draft questionnaire whose publish time has passed
// to published and clears its schedule. Returns how many were published.
func (s *QuestionnaireService) PublishDue() (int, error) {
	var questionnaires []models.Questionnaire
	err := s.DB.Where("status = ? AND publish_at <= ?", models.QuestionnaireStatusDraft, time.Now()).
		Find(&questionnaires).Error
	if err != nil {
		return 0, err
	}

	var published int
	for _, q := range questionnaires {
		q.Status = models.QuestionnaireStatusPublished
		q.PublishAt = nil
		if err := s.DB.Save(&q).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish questionnaire %s: %v", q.ID, err)
			continue
		}
		published++
		log.Printf("✅ Auto-published questionnaire: %s", q.Name)
	}
	return published, nil
}

func (s *QuestionnaireService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish scheduled questionnaires
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if _, err := s.PublishDue(); err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
			}
		}),
	)
}

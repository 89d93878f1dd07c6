// workers/ledger_reconciler.go
package workers

import (
	"context"
	"log"
	"time"

	"learning-reward-system/models"

	"gorm.io/gorm"
)

// LedgerReconciler recounts ActivityProgress counters from the
// source-of-truth rows (watched videos, quiz results, responses). The
// denormalized counters drive reward tiers, so drift would mis-tier users.
type LedgerReconciler struct {
	DB *gorm.DB
}

func NewLedgerReconciler(db *gorm.DB) *LedgerReconciler {
	return &LedgerReconciler{DB: db}
}

// PollLedgers runs reconciliation on an interval until ctx is done.
func PollLedgers(ctx context.Context, r *LedgerReconciler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.ReconcileAll(ctx); err != nil {
				log.Printf("[RECONCILE] ❌ run failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Ledger reconciler stopped")
			return
		}
	}
}

// ReconcileAll walks every ledger row and rewrites counters that drifted
// from the underlying activity rows.
func (r *LedgerReconciler) ReconcileAll(ctx context.Context) error {
	var ledgers []models.ActivityProgress
	if err := r.DB.WithContext(ctx).Find(&ledgers).Error; err != nil {
		return err
	}

	var fixed int
	for _, ledger := range ledgers {
		changed, err := r.reconcileOne(ctx, &ledger)
		if err != nil {
			log.Printf("[RECONCILE] ⚠️ user %s: %v", ledger.ExternalUserID, err)
			continue
		}
		if changed {
			fixed++
		}
	}

	if fixed > 0 {
		log.Printf("[RECONCILE] ✅ corrected %d of %d ledgers", fixed, len(ledgers))
	}
	return nil
}

func (r *LedgerReconciler) reconcileOne(ctx context.Context, ledger *models.ActivityProgress) (bool, error) {
	db := r.DB.WithContext(ctx)

	var videos, quizzes, responses int64
	if err := db.Model(&models.WatchedVideo{}).
		Where("external_user_id = ?", ledger.ExternalUserID).
		Count(&videos).Error; err != nil {
		return false, err
	}
	if err := db.Model(&models.QuizResult{}).
		Where("external_user_id = ?", ledger.ExternalUserID).
		Count(&quizzes).Error; err != nil {
		return false, err
	}
	if err := db.Model(&models.Response{}).
		Where("external_user_id = ?", ledger.ExternalUserID).
		Count(&responses).Error; err != nil {
		return false, err
	}

	if videos == ledger.VideosWatched &&
		quizzes == ledger.QuizzesPassed &&
		responses == ledger.ResponsesSubmitted {
		return false, nil
	}

	err := db.Model(&models.ActivityProgress{}).
		Where("id = ?", ledger.ID).
		Updates(map[string]interface{}{
			"videos_watched":      videos,
			"quizzes_passed":      quizzes,
			"responses_submitted": responses,
		}).Error
	if err != nil {
		return false, err
	}

	log.Printf("[RECONCILE] 🔧 user %s: videos %d→%d, quizzes %d→%d, responses %d→%d",
		ledger.ExternalUserID,
		ledger.VideosWatched, videos,
		ledger.QuizzesPassed, quizzes,
		ledger.ResponsesSubmitted, responses)
	return true, nil
}

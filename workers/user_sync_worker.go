// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"learning-reward-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredUserFromProfile matches the JSON response from the profile sync
// service.
type MirroredUserFromProfile struct {
	ID                string    `json:"id"`
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	PreferredLanguage *string   `json:"preferred_language,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetUserChangesResponse is the top-level structure of the sync service response.
type GetUserChangesResponse struct {
	Users []MirroredUserFromProfile `json:"users"`
}

type PlatformUserSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewPlatformUserSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *PlatformUserSyncWorker {
	return &PlatformUserSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *PlatformUserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Platform User Sync Worker (profile service → platform_users)…")
	go w.run(ctx)
}

func (w *PlatformUserSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Platform User Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local PlatformUser table.
func (w *PlatformUserSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM platform_users WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches user changes from the profile sync service and upserts
// them into the local PlatformUser table.
func (w *PlatformUserSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("[SYNC] ❌ Request to %s failed: %v", finalURL, err)
		return fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Sync service returned %d for %s: %s", resp.StatusCode, finalURL, string(body))
		return fmt.Errorf("sync service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetUserChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d user(s) from sync service…", len(response.Users))

	var upsertCount, errorCount int
	for _, remoteUser := range response.Users {
		localUser := models.PlatformUser{
			ExternalUserID:    remoteUser.ExternalID,
			Username:          remoteUser.Username,
			Email:             remoteUser.Email,
			FirstName:         remoteUser.FirstName,
			LastName:          remoteUser.LastName,
			ProfilePictureURL: remoteUser.ProfilePictureURL,
			PreferredLanguage: remoteUser.PreferredLanguage,
			CreatedAt:         remoteUser.CreatedAt,
			UpdatedAt:         remoteUser.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "first_name", "last_name",
				"profile_picture_url", "preferred_language", "created_at", "updated_at",
			}),
		}).Create(&localUser).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert platform_user (external_id=%q, username=%q): %v",
				remoteUser.ExternalID, remoteUser.Username, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d users (%d upserted, %d errors)", len(response.Users), upsertCount, errorCount)
	return nil
}

package services

import (
	"testing"

	"learning-reward-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVideoWatched_BumpsLedgerAndAwards(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, NewJetonService(db))
	seedUser(t, db, "u1")
	bronze := seedJeton(t, db, "Bronze Viewer", models.JetonTypeVideo, 1)
	silver := seedJeton(t, db, "Silver Viewer", models.JetonTypeVideo, 3)

	jeton, recorded, err := svc.RecordVideoWatched("u1", "video-1")
	require.NoError(t, err)
	assert.True(t, recorded)
	require.NotNil(t, jeton)
	assert.Equal(t, bronze.ID, jeton.ID)

	// Rewatching the same video changes nothing.
	jeton, recorded, err = svc.RecordVideoWatched("u1", "video-1")
	require.NoError(t, err)
	assert.False(t, recorded)
	require.NotNil(t, jeton, "current tier is still reported")
	assert.Equal(t, bronze.ID, jeton.ID)

	var prog models.ActivityProgress
	require.NoError(t, db.Where("external_user_id = ?", "u1").First(&prog).Error)
	assert.Equal(t, int64(1), prog.VideosWatched)

	// Two more distinct videos cross the next tier.
	_, _, err = svc.RecordVideoWatched("u1", "video-2")
	require.NoError(t, err)
	jeton, recorded, err = svc.RecordVideoWatched("u1", "video-3")
	require.NoError(t, err)
	assert.True(t, recorded)
	require.NotNil(t, jeton)
	assert.Equal(t, silver.ID, jeton.ID)

	var possessed int64
	require.NoError(t, db.Model(&models.UserJeton{}).
		Where("external_user_id = ?", "u1").
		Count(&possessed).Error)
	assert.Equal(t, int64(2), possessed)
}

func TestRecordVideoWatched_UserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, NewJetonService(db))

	_, _, err := svc.RecordVideoWatched("ghost", "video-1")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureProgress_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewActivityService(db, NewJetonService(db))

	first, err := svc.EnsureProgress("u1")
	require.NoError(t, err)
	second, err := svc.EnsureProgress("u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var rows int64
	require.NoError(t, db.Model(&models.ActivityProgress{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

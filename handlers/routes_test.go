package handlers

import (
	"net/http/httptest"
	"testing"

	"learning-reward-system/models"
	"learning-reward-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires every route group in the order main.go registers them,
// so middleware scoping bugs between groups show up here.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.PlatformUser{},
		&models.Jeton{},
		&models.CardInfo{},
		&models.UserJeton{},
		&models.ActivityProgress{},
		&models.WatchedVideo{},
		&models.Questionnaire{},
		&models.Question{},
		&models.Variant{},
		&models.Response{},
		&models.QuestionAnswer{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizOption{},
		&models.QuizResult{},
	))

	app := fiber.New()
	jetonService := services.NewJetonService(db)
	SetupJetonRoutes(app, jetonService)
	SetupActivityRoutes(app, services.NewActivityService(db, jetonService))
	SetupQuestionnaireRoutes(app, services.NewQuestionnaireService(db))
	SetupQuizRoutes(app, services.NewQuizService(db, jetonService))
	return app, db
}

func TestPublicListingsNeedNoUserContext(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{"/jetons", "/questionnaires", "/quizzes"} {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestSecuredRoutesRequireUserContext(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&models.PlatformUser{
		ID:             uuid.NewString(),
		ExternalUserID: "u1",
		Username:       "user-u1",
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/user/jetons", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/user/jetons", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("DELETE", "/s/admin/quizzes/some-id", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/s/admin/quizzes/some-id", nil)
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Roles", "admin")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "role passes, quiz does not exist")
}

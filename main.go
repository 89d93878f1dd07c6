package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"learning-reward-system/handlers"
	"learning-reward-system/middleware"
	"learning-reward-system/models"
	"learning-reward-system/services"
	"learning-reward-system/utils"
	"learning-reward-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — jeton/card imagery only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language, Authorization, X-Requested-With, X-Request-ID, X-Service-Token, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	jetonService := services.NewJetonService(db)
	activityService := services.NewActivityService(db, jetonService)
	questionnaireService := services.NewQuestionnaireService(db)
	quizService := services.NewQuizService(db, jetonService)

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("REWARD_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("REWARD_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewPlatformUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)
	reconciler := workers.NewLedgerReconciler(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Platform User Sync Worker...")
		syncWorker.Start(ctx)
	}()
	go workers.PollLedgers(ctx, reconciler, 10*time.Minute)

	questionnaireService.StartPublishScheduler()

	// ✅ Setup routes — enforced Gateway auth + user context on secured routes
	handlers.SetupJetonRoutes(app, jetonService)
	handlers.SetupActivityRoutes(app, activityService)
	handlers.SetupQuestionnaireRoutes(app, questionnaireService)
	handlers.SetupQuizRoutes(app, quizService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Platform User Sync Worker running")
	log.Println("✅ Ledger reconciler running (every 10m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

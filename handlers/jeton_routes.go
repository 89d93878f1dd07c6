// handlers/jeton_routes.go
package handlers

import (
	"learning-reward-system/middleware"
	"learning-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupJetonRoutes(app *fiber.App, jetonService *services.JetonService) {
	// 🔓 Public routes — no user context, but still behind Gateway auth
	app.Get("/jetons", jetonService.GetAllJetons)

	// 🔐 Secured routes — require user context from the Gateway. The
	// middleware is attached per route so public listings stay public.
	userCtx := middleware.UserContextMiddleware()

	app.Get("/user/jetons", userCtx, jetonService.GetMyJetons)
	app.Post("/user/jetons/card", userCtx, jetonService.ApplyForCard)

	// Admin catalog management
	admin := app.Group("/s/admin", userCtx, middleware.RequireRole("admin"))

	admin.Post("/jetons", jetonService.CreateJeton)
	admin.Post("/jetons/card-info", jetonService.CreateCardInfo)
	admin.Put("/jetons/:id", jetonService.UpdateJeton)
	admin.Patch("/jetons/:id", jetonService.UpdateJeton)
	admin.Delete("/jetons/:id", jetonService.DeleteJeton)
}

// handlers/activity_routes.go
package handlers

import (
	"errors"

	"learning-reward-system/middleware"
	"learning-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(app *fiber.App, activityService *services.ActivityService) {
	userCtx := middleware.UserContextMiddleware()

	// Video module reports "user watched this video". Rewatches are no-ops.
	app.Post("/activities/video-watched", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			VideoBlogID string `json:"video_blog_id"`
		}
		if err := c.BodyParser(&req); err != nil || req.VideoBlogID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "video_blog_id is required"})
		}

		jeton, recorded, err := activityService.RecordVideoWatched(userID, req.VideoBlogID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record watch",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"recorded": recorded, "jeton": jeton})
	})

	app.Get("/user/progress", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prog, err := activityService.GetProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(prog)
	})
}

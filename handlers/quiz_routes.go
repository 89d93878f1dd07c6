// handlers/quiz_routes.go
package handlers

import (
	"errors"

	"learning-reward-system/middleware"
	"learning-reward-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App, quizService *services.QuizService) {
	app.Get("/quizzes", func(c *fiber.Ctx) error {
		quizzes, err := quizService.ListQuizzes()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list quizzes",
				"cause": err.Error(),
			})
		}
		return c.JSON(quizzes)
	})

	app.Get("/quizzes/:id", func(c *fiber.Ctx) error {
		quiz, err := quizService.GetQuiz(c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrQuizNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
		}
		return c.JSON(quiz)
	})

	userCtx := middleware.UserContextMiddleware()

	app.Post("/quizzes/:id/take", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		jeton, err := quizService.TakeQuiz(userID, c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrQuizNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to take quiz",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"jeton": jeton})
	})

	app.Get("/user/quiz-results", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		results, err := quizService.ListResults(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list quiz results",
				"cause": err.Error(),
			})
		}
		return c.JSON(results)
	})

	admin := app.Group("/s/admin", userCtx, middleware.RequireRole("admin"))

	admin.Post("/quizzes", func(c *fiber.Ctx) error {
		var input services.CreateQuizInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if input.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
		}

		quiz, err := quizService.CreateQuiz(input)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create quiz",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(quiz)
	})

	admin.Delete("/quizzes/:id", func(c *fiber.Ctx) error {
		if err := quizService.DeleteQuiz(c.Params("id")); err != nil {
			if errors.Is(err, services.ErrQuizNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete quiz", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Quiz deleted successfully"})
	})
}

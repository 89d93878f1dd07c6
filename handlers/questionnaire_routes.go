// handlers/questionnaire_routes.go
package handlers

import (
	"errors"

	"learning-reward-system/middleware"
	"learning-reward-system/services"
	"learning-reward-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupQuestionnaireRoutes(app *fiber.App, questionnaireService *services.QuestionnaireService) {
	app.Get("/questionnaires", func(c *fiber.Ctx) error {
		questionnaires, err := questionnaireService.ListQuestionnaires(c.Query("q"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list questionnaires",
				"cause": err.Error(),
			})
		}

		locale := utils.PickLocale(c.Get("Accept-Language"))
		res := make([]fiber.Map, len(questionnaires))
		for i, q := range questionnaires {
			res[i] = fiber.Map{
				"id":          q.ID,
				"name":        utils.Localized(locale, q.Name, q.NameKG),
				"slug":        q.Slug,
				"description": q.Description,
				"questions":   q.Questions,
				"created_at":  q.CreatedAt,
			}
		}
		return c.JSON(res)
	})

	userCtx := middleware.UserContextMiddleware()

	app.Post("/questionnaires/:id/responses", userCtx, func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Answers []services.AnswerInput `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		response, err := questionnaireService.SubmitResponse(userID, c.Params("id"), req.Answers)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrQuestionnaireNotFound),
				errors.Is(err, services.ErrUserNotFound),
				errors.Is(err, services.ErrQuestionNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case services.IsValidation(err):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to submit response",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(response)
	})

	admin := app.Group("/s/admin", userCtx, middleware.RequireRole("admin"))

	admin.Post("/questionnaires", func(c *fiber.Ctx) error {
		var input services.CreateQuestionnaireInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if input.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
		}

		questionnaire, err := questionnaireService.CreateQuestionnaire(input)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create questionnaire",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(questionnaire)
	})

	admin.Get("/questionnaires/:id/responses", func(c *fiber.Ctx) error {
		responses, err := questionnaireService.ListResponses(c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrQuestionnaireNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list responses",
				"cause": err.Error(),
			})
		}
		return c.JSON(responses)
	})
}

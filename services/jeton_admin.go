// services/jeton_admin.go
package services

import (
	"errors"
	"log"
	"strconv"

	"learning-reward-system/models"
	"learning-reward-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Admin Handlers ---

// CreateJeton creates a new catalog jeton (Admin only). Multipart form with
// an optional "image" file uploaded to R2.
func (s *JetonService) CreateJeton(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	jetonType := models.JetonType(c.FormValue("type", string(models.JetonTypeCard)))
	switch jetonType {
	case models.JetonTypeVideo, models.JetonTypeTest, models.JetonTypeCard:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid jeton type"})
	}

	quantity, err := strconv.ParseInt(c.FormValue("quantity_to_get", "0"), 10, 64)
	if err != nil || quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid quantity_to_get"})
	}

	var existing int64
	if err := s.DB.Model(&models.Jeton{}).Where("title = ?", title).Count(&existing).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if existing > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrDuplicateTitle.Error()})
	}

	// A tie between two thresholds of one type would make tier selection
	// undefined, so it is rejected here rather than resolved at lookup time.
	if jetonType != models.JetonTypeCard {
		var clash int64
		if err := s.DB.Model(&models.Jeton{}).
			Where("type = ? AND quantity_to_get = ?", jetonType, quantity).
			Count(&clash).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if clash > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrDuplicateThreshold.Error()})
		}
	}

	jeton := models.Jeton{
		ID:            uuid.NewString(),
		Title:         title,
		TitleKG:       c.FormValue("title_kg"),
		Description:   c.FormValue("description"),
		DescriptionKG: c.FormValue("description_kg"),
		Type:          jetonType,
		QuantityToGet: quantity,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, upErr := utils.UploadImageToR2(c.Context(), file)
		if upErr != nil {
			log.Printf("R2 upload failed for jeton %q: %v", title, upErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "image upload failed"})
		}
		jeton.ImageURL = imageURL
	}

	if cardInfoID := c.FormValue("card_info_id"); cardInfoID != "" {
		var card models.CardInfo
		if err := s.DB.First(&card, "id = ?", cardInfoID).Error; err == nil {
			jeton.CardInfoID = &card.ID
		}
	}

	if err := s.DB.Create(&jeton).Error; err != nil {
		log.Printf("DB Error creating jeton: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create jeton"})
	}

	return c.Status(fiber.StatusCreated).JSON(jeton)
}

// CreateCardInfo creates card content that a CARD jeton can point at.
func (s *JetonService) CreateCardInfo(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	card := models.CardInfo{
		ID:            uuid.NewString(),
		Title:         title,
		TitleKG:       c.FormValue("title_kg"),
		Description:   c.FormValue("description"),
		DescriptionKG: c.FormValue("description_kg"),
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, upErr := utils.UploadImageToR2(c.Context(), file)
		if upErr != nil {
			log.Printf("R2 upload failed for card info %q: %v", title, upErr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "image upload failed"})
		}
		card.ImageURL = imageURL
	}

	if err := s.DB.Create(&card).Error; err != nil {
		log.Printf("DB Error creating card info: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create card info"})
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

// UpdateJeton updates catalog fields of an existing jeton (Admin only).
func (s *JetonService) UpdateJeton(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid jeton ID"})
	}

	var jeton models.Jeton
	if err := s.DB.First(&jeton, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrJetonNotFound.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Title         *string `json:"title"`
		TitleKG       *string `json:"title_kg"`
		Description   *string `json:"description"`
		DescriptionKG *string `json:"description_kg"`
		QuantityToGet *int64  `json:"quantity_to_get"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != nil {
		jeton.Title = *req.Title
	}
	if req.TitleKG != nil {
		jeton.TitleKG = *req.TitleKG
	}
	if req.Description != nil {
		jeton.Description = *req.Description
	}
	if req.DescriptionKG != nil {
		jeton.DescriptionKG = *req.DescriptionKG
	}
	if req.QuantityToGet != nil {
		var clash int64
		if err := s.DB.Model(&models.Jeton{}).
			Where("type = ? AND quantity_to_get = ? AND id <> ?", jeton.Type, *req.QuantityToGet, jeton.ID).
			Count(&clash).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if clash > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrDuplicateThreshold.Error()})
		}
		jeton.QuantityToGet = *req.QuantityToGet
	}

	if err := s.DB.Save(&jeton).Error; err != nil {
		log.Printf("DB Error updating jeton: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update jeton"})
	}

	return c.JSON(jeton)
}

// DeleteJeton soft-deletes a jeton so already-awarded instances keep
// resolving while the catalog stops offering it.
func (s *JetonService) DeleteJeton(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid jeton ID"})
	}

	var jeton models.Jeton
	if err := s.DB.First(&jeton, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrJetonNotFound.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&jeton).Error; err != nil {
		log.Printf("DB Error deleting jeton: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete jeton"})
	}

	return c.JSON(fiber.Map{"message": "Jeton deleted successfully"})
}

// GetAllJetons lists the catalog, localized per Accept-Language.
func (s *JetonService) GetAllJetons(c *fiber.Ctx) error {
	var jetons []models.Jeton
	if err := s.DB.Preload("CardInfo").Order("type, quantity_to_get").Find(&jetons).Error; err != nil {
		log.Printf("DB Error fetching jetons: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch jetons"})
	}

	locale := utils.PickLocale(c.Get("Accept-Language"))
	res := make([]fiber.Map, len(jetons))
	for i, j := range jetons {
		res[i] = fiber.Map{
			"id":              j.ID,
			"title":           utils.Localized(locale, j.Title, j.TitleKG),
			"description":     utils.Localized(locale, j.Description, j.DescriptionKG),
			"type":            j.Type,
			"quantity_to_get": j.QuantityToGet,
			"image_url":       j.ImageURL,
			"card_info":       j.CardInfo,
		}
	}
	return c.JSON(res)
}

// --- User Handlers ---

// GetMyJetons lists the authenticated user's awarded jetons.
func (s *JetonService) GetMyJetons(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	owned, err := s.GetUserJetons(userID)
	if err != nil {
		log.Printf("DB Error fetching user jetons: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch jetons"})
	}
	return c.JSON(owned)
}

// ApplyForCard allocates the next unclaimed CARD jeton to the user.
func (s *JetonService) ApplyForCard(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	card, err := s.AssignUnclaimedCard(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("Card allocation failed for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to allocate card"})
	}
	if card == nil {
		return c.JSON(fiber.Map{"message": "No unclaimed cards left", "jeton": nil})
	}
	return c.JSON(fiber.Map{"message": "Card allocated", "jeton": card})
}

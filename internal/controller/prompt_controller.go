package controller

import (
	"github.com/gofiber/fiber/v2"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/utils/jwt"
)

type PromptInput struct {
	Text  string `json:"text" validate:"required"`
	Topic string `json:"topic"`
}

// ownedBrand marka sahipliğini doğrular
func ownedBrand(c *fiber.Ctx, brandIDParam string) (*model.Brand, error) {
	claims := c.Locals("user").(*jwt.Claims)

	var brand model.Brand
	err := database.GetDB().
		Where("id = ? AND user_id = ?", brandIDParam, claims.UserID).
		First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// CreatePrompt markaya izlenecek yeni prompt ekler. Limit middleware'de.
func CreatePrompt(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	input := new(PromptInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt text is required",
		})
	}

	prompt := model.Prompt{
		BrandID: brand.ID,
		Text:    input.Text,
		Topic:   input.Topic,
		Active:  true,
	}

	if err := database.GetDB().Create(&prompt).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create prompt",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(prompt)
}

func ListPrompts(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	var prompts []model.Prompt
	if err := database.GetDB().Where("brand_id = ?", brand.ID).Find(&prompts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch prompts",
		})
	}

	return c.JSON(prompts)
}

func UpdatePrompt(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	var prompt model.Prompt
	if err := database.GetDB().
		Where("id = ? AND brand_id = ?", c.Params("id"), brand.ID).
		First(&prompt).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prompt not found",
		})
	}

	input := struct {
		Text   *string `json:"text"`
		Topic  *string `json:"topic"`
		Active *bool   `json:"active"`
	}{}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{}
	if input.Text != nil {
		updates["text"] = *input.Text
	}
	if input.Topic != nil {
		updates["topic"] = *input.Topic
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(&prompt).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update prompt",
			})
		}
	}

	return c.JSON(prompt)
}

func DeletePrompt(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	result := database.GetDB().
		Where("id = ? AND brand_id = ?", c.Params("id"), brand.ID).
		Delete(&model.Prompt{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete prompt",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prompt not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Prompt deleted successfully",
	})
}

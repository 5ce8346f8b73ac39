package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/utils/jwt"
)

type BrandInput struct {
	Name        string   `json:"name" validate:"required"`
	Domain      string   `json:"domain"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Competitors []string `json:"competitors"`
}

// CreateBrand yeni marka oluşturur. Plan limiti middleware'de kontrol edilir.
func CreateBrand(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(BrandInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Brand name is required",
		})
	}

	brand := model.Brand{
		Name:        input.Name,
		Domain:      input.Domain,
		Description: input.Description,
		UserID:      claims.UserID,
		Keywords:    toJSONArray(input.Keywords),
		Competitors: toJSONArray(input.Competitors),
	}

	if err := database.GetDB().Create(&brand).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create brand",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(brand)
}

// ListMyBrands kullanıcının markalarını istatistikleriyle listeler
func ListMyBrands(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var brands []model.Brand
	if err := database.GetDB().Where("user_id = ?", claims.UserID).Find(&brands).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch brands",
		})
	}

	result := make([]fiber.Map, 0, len(brands))
	for _, brand := range brands {
		var stats model.BrandStats
		database.GetDB().Where("brand_id = ?", brand.ID).First(&stats)

		result = append(result, fiber.Map{
			"brand":            brand,
			"visibility_score": stats.VisibilityScore,
			"mention_rate":     stats.MentionRate,
		})
	}

	return c.JSON(result)
}

func GetBrand(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var brand model.Brand
	if err := database.GetDB().Preload("Prompts").
		Where("id = ? AND user_id = ?", c.Params("id"), claims.UserID).
		First(&brand).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	return c.JSON(brand)
}

func UpdateBrand(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var brand model.Brand
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", c.Params("id"), claims.UserID).
		First(&brand).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	input := new(BrandInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"domain":      input.Domain,
		"description": input.Description,
		"keywords":    toJSONArray(input.Keywords),
		"competitors": toJSONArray(input.Competitors),
	}

	if err := database.GetDB().Model(&brand).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update brand",
		})
	}

	return c.JSON(brand)
}

func DeleteBrand(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var brand model.Brand
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", c.Params("id"), claims.UserID).
		First(&brand).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	if err := database.GetDB().Delete(&brand).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete brand",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Brand deleted successfully",
	})
}

// GetPublicBrandReport slug üzerinden paylaşılabilir rapor sayfası
func GetPublicBrandReport(c *fiber.Ctx) error {
	var user model.User
	if err := database.GetDB().Where("username = ?", c.Params("username")).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	var brand model.Brand
	if err := database.GetDB().
		Where("user_id = ? AND slug = ?", user.ID, c.Params("brand_slug")).
		First(&brand).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	var stats model.BrandStats
	database.GetDB().Where("brand_id = ?", brand.ID).First(&stats)

	return c.JSON(fiber.Map{
		"brand": fiber.Map{
			"name":     brand.Name,
			"domain":   brand.Domain,
			"logo_url": brand.LogoURL,
		},
		"stats": fiber.Map{
			"visibility_score": stats.VisibilityScore,
			"mention_rate":     stats.MentionRate,
			"avg_position":     stats.AvgPosition,
			"total_runs":       stats.TotalRuns,
			"last_updated":     stats.LastUpdated,
		},
	})
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

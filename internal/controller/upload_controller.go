package controller

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/utils/cloudflare"
	"mentha_backend/pkg/utils/validation"
)

// UploadBrandLogo marka logosu yükler; webp'e çevrilip R2'ya atılır
func UploadBrandLogo(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Eski logo varsa sil
	if brand.LogoURL != "" {
		if err := cloudflare.DeleteImage(brand.LogoURL); err != nil {
			log.Printf("Error deleting old logo: %v", err)
		}
	}

	var user model.User
	if err := database.GetDB().First(&user, brand.UserID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	result, err := cloudflare.UploadLogo(cloudflare.UploadLogoConfig{
		File:      file,
		Username:  user.Username,
		BrandSlug: brand.Slug,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Could not upload logo: %v", err),
		})
	}

	if err := database.GetDB().Model(brand).Update("logo_url", result.URL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update brand logo",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Logo uploaded successfully",
		"logo_url": result.URL,
	})
}

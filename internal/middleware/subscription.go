package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/plan"
	"mentha_backend/pkg/utils/jwt"
)

// activePlan kullanıcının geçerli plan tipini belirler. Abonelik kaydı yoksa
// veya entitle değilse (past_due, canceled...) Free'ye düşer.
func activePlan(userID uint) plan.PlanType {
	var sub model.Subscription
	if err := database.DB.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return plan.FreePlan
	}
	return plan.FromSubscription(&sub)
}

// CheckFeatureAccess plan özelliği gerektiren endpointler için
func CheckFeatureAccess(feature plan.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		if !plan.CanUseFeature(activePlan(claims.UserID), feature) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This feature requires a higher subscription plan",
			})
		}

		return c.Next()
	}
}

// CheckBrandLimit kullanıcının marka limitini kontrol eder
func CheckBrandLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		limits := plan.GetPlanLimits(activePlan(claims.UserID))

		var currentBrands int64
		database.DB.Model(&model.Brand{}).Where("user_id = ?", claims.UserID).Count(&currentBrands)

		if int(currentBrands) >= limits.MaxBrands {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your brand limit. Please upgrade your plan.",
				"current_count": currentBrands,
				"max_limit":     limits.MaxBrands,
			})
		}

		return c.Next()
	}
}

// CheckPromptLimit marka başına prompt limitini kontrol eder
func CheckPromptLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		limits := plan.GetPlanLimits(activePlan(claims.UserID))

		var currentPrompts int64
		database.DB.Model(&model.Prompt{}).
			Where("brand_id = ?", c.Params("brand_id")).
			Count(&currentPrompts)

		if int(currentPrompts) >= limits.MaxPrompts {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "You have reached your prompt limit. Please upgrade your plan.",
				"current_count": currentPrompts,
				"max_limit":     limits.MaxPrompts,
			})
		}

		return c.Next()
	}
}

package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// CrawlerAuthMiddleware mention ingest endpointini crawler servisine kilitler
func CrawlerAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := os.Getenv("CRAWLER_API_KEY")
		if apiKey == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Ingest is not configured",
			})
		}

		provided := c.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		return c.Next()
	}
}

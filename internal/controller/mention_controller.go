package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
)

// MentionInput crawler servisinin gönderdiği tek prompt çalıştırma sonucu
type MentionInput struct {
	PromptID   uint   `json:"prompt_id" validate:"required"`
	Platform   string `json:"platform" validate:"required"`
	Mentioned  bool   `json:"mentioned"`
	Position   int    `json:"position"`
	Sentiment  string `json:"sentiment"`
	Cited      bool   `json:"cited"`
	Snippet    string `json:"snippet"`
	CapturedAt string `json:"captured_at"` // RFC3339, boşsa şimdi
}

var knownPlatforms = map[model.AIPlatform]bool{
	model.PlatformChatGPT:    true,
	model.PlatformClaude:     true,
	model.PlatformGemini:     true,
	model.PlatformPerplexity: true,
	model.PlatformCopilot:    true,
}

// IngestMention crawler'dan gelen sonucu kaydeder. İstatistik güncellemesi
// model hook'larında yapılır.
func IngestMention(c *fiber.Ctx) error {
	input := new(MentionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	platform := model.AIPlatform(input.Platform)
	if !knownPlatforms[platform] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown platform",
		})
	}

	var prompt model.Prompt
	if err := database.GetDB().First(&prompt, input.PromptID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prompt not found",
		})
	}

	mention := model.Mention{
		BrandID:   prompt.BrandID,
		PromptID:  prompt.ID,
		Platform:  platform,
		Mentioned: input.Mentioned,
		Position:  input.Position,
		Sentiment: input.Sentiment,
		Cited:     input.Cited,
		Snippet:   input.Snippet,
	}

	if input.CapturedAt != "" {
		capturedAt, err := time.Parse(time.RFC3339, input.CapturedAt)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid captured_at timestamp",
			})
		}
		mention.CapturedAt = capturedAt
	}

	if err := database.GetDB().Create(&mention).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save mention",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(mention)
}

// ListMentions marka için sonuçları listeler, platform ve tarih filtresi alır
func ListMentions(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	query := database.GetDB().Where("brand_id = ?", brand.ID)

	if platform := c.Query("platform"); platform != "" {
		query = query.Where("platform = ?", platform)
	}
	if since := c.Query("since"); since != "" {
		sinceTime, err := time.Parse("2006-01-02", since)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid since date, expected YYYY-MM-DD",
			})
		}
		query = query.Where("captured_at >= ?", sinceTime)
	}
	if c.QueryBool("mentioned_only") {
		query = query.Where("mentioned = ?", true)
	}

	var mentions []model.Mention
	if err := query.Order("captured_at DESC").Limit(200).Find(&mentions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch mentions",
		})
	}

	return c.JSON(mentions)
}

// ExportMentionsCSV marka sonuçlarını CSV dosyası olarak indirir.
// Plan kontrolü middleware'de (csv_export özelliği).
func ExportMentionsCSV(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("brand_id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	var mentions []model.Mention
	if err := database.GetDB().
		Where("brand_id = ?", brand.ID).
		Order("captured_at DESC").
		Find(&mentions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch mentions",
		})
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{"captured_at", "platform", "prompt_id", "mentioned", "position", "sentiment", "cited"})
	for _, mention := range mentions {
		writer.Write([]string{
			mention.CapturedAt.Format(time.RFC3339),
			string(mention.Platform),
			strconv.FormatUint(uint64(mention.PromptID), 10),
			strconv.FormatBool(mention.Mentioned),
			strconv.Itoa(mention.Position),
			mention.Sentiment,
			strconv.FormatBool(mention.Cited),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not build CSV",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-mentions.csv"`, brand.Slug))
	return c.Send(buf.Bytes())
}

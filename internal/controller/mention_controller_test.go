package controller

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mentha_backend/internal/middleware"
	"mentha_backend/internal/model"
	"mentha_backend/pkg/plan"
	"mentha_backend/pkg/utils/jwt"
)

func userContext(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Claims{UserID: userID})
		return c.Next()
	}
}

func seedBrandWithPrompt(t *testing.T, db *gorm.DB, userID uint) (*model.Brand, *model.Prompt) {
	t.Helper()

	brand := model.Brand{Name: "Acme", UserID: userID}
	require.NoError(t, db.Create(&brand).Error)
	prompt := model.Prompt{BrandID: brand.ID, Text: "best crm for startups?", Active: true}
	require.NoError(t, db.Create(&prompt).Error)
	return &brand, &prompt
}

func TestIngestMentionPersistsAndUpdatesStats(t *testing.T) {
	db := setupTestDB(t)
	brand, prompt := seedBrandWithPrompt(t, db, 1)

	app := fiber.New()
	app.Post("/api/ingest/mentions", IngestMention)

	resp := postJSON(t, app, "/api/ingest/mentions", MentionInput{
		PromptID:  prompt.ID,
		Platform:  "chatgpt",
		Mentioned: true,
		Position:  1,
		Cited:     true,
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Mention{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stats model.BrandStats
	require.NoError(t, db.Where("brand_id = ?", brand.ID).First(&stats).Error)
	assert.Equal(t, int64(1), stats.TotalRuns)
	assert.Equal(t, int64(1), stats.TotalMentions)
}

func TestIngestMentionRejectsUnknownPlatform(t *testing.T) {
	db := setupTestDB(t)
	_, prompt := seedBrandWithPrompt(t, db, 1)

	app := fiber.New()
	app.Post("/api/ingest/mentions", IngestMention)

	resp := postJSON(t, app, "/api/ingest/mentions", MentionInput{
		PromptID: prompt.ID,
		Platform: "bard",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func exportApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Get("/api/brands/:brand_id/mentions/export",
		userContext(userID), middleware.CheckFeatureAccess(plan.CSVExport), ExportMentionsCSV)
	return app
}

func TestExportMentionsRequiresPaidPlan(t *testing.T) {
	db := setupTestDB(t)
	brand, _ := seedBrandWithPrompt(t, db, 1)

	// Free planda csv_export yok
	app := exportApp(1)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/brands/%d/mentions/export", brand.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestExportMentionsReturnsCSV(t *testing.T) {
	db := setupTestDB(t)
	brand, prompt := seedBrandWithPrompt(t, db, 1)

	require.NoError(t, db.Create(&model.Subscription{
		UserID:   1,
		PlanName: "pro",
		Status:   model.SubscriptionStatusActive,
	}).Error)
	require.NoError(t, db.Create(&model.Mention{
		BrandID:   brand.ID,
		PromptID:  prompt.ID,
		Platform:  model.PlatformChatGPT,
		Mentioned: true,
		Position:  2,
	}).Error)

	app := exportApp(1)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/brands/%d/mentions/export", brand.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "captured_at,platform,prompt_id")
	assert.Contains(t, string(body), "chatgpt")
}

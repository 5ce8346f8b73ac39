package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/utils/jwt"
)

// DashboardStats genel dashboard istatistikleri
type DashboardStats struct {
	TotalBrands     int64          `json:"total_brands"`
	TotalPrompts    int64          `json:"total_prompts"`
	TotalRuns       int64          `json:"total_runs"`
	TotalMentions   int64          `json:"total_mentions"`
	TopPrompts      []TopPrompt    `json:"top_prompts"`
	DailyStats      []DailyStat    `json:"daily_stats"`
	PlatformStats   []PlatformStat `json:"platform_stats"`
	VisibilityScore float64        `json:"visibility_score"`
}

type TopPrompt struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Topic    string `json:"topic"`
	Mentions int64  `json:"mentions"`
}

type DailyStat struct {
	Date     string `json:"date"`
	Runs     int64  `json:"runs"`
	Mentions int64  `json:"mentions"`
}

type PlatformStat struct {
	Platform string  `json:"platform"`
	Runs     int64   `json:"runs"`
	Mentions int64   `json:"mentions"`
	Rate     float64 `json:"rate"`
}

// GetDashboardStats dashboard istatistiklerini getirir
func GetDashboardStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	db := database.GetDB()

	var stats DashboardStats

	db.Model(&model.Brand{}).
		Where("user_id = ?", claims.UserID).
		Count(&stats.TotalBrands)

	db.Model(&model.Prompt{}).
		Joins("JOIN brands ON brands.id = prompts.brand_id").
		Where("brands.user_id = ?", claims.UserID).
		Count(&stats.TotalPrompts)

	db.Model(&model.Mention{}).
		Joins("JOIN brands ON brands.id = mentions.brand_id").
		Where("brands.user_id = ?", claims.UserID).
		Count(&stats.TotalRuns)

	db.Model(&model.Mention{}).
		Joins("JOIN brands ON brands.id = mentions.brand_id").
		Where("brands.user_id = ? AND mentions.mentioned = ?", claims.UserID, true).
		Count(&stats.TotalMentions)

	// Kullanıcının markaları üzerinden ortalama görünürlük skoru
	db.Model(&model.BrandStats{}).
		Joins("JOIN brands ON brands.id = brand_stats.brand_id").
		Where("brands.user_id = ?", claims.UserID).
		Select("COALESCE(AVG(brand_stats.visibility_score), 0)").
		Scan(&stats.VisibilityScore)

	// En çok mention alan 5 prompt
	var topPrompts []TopPrompt
	db.Table("prompts").
		Select("prompts.id, prompts.text, prompts.topic, COUNT(mentions.id) as mentions").
		Joins("JOIN brands ON brands.id = prompts.brand_id").
		Joins("LEFT JOIN mentions ON mentions.prompt_id = prompts.id AND mentions.mentioned = true").
		Where("brands.user_id = ?", claims.UserID).
		Group("prompts.id, prompts.text, prompts.topic").
		Order("mentions DESC").
		Limit(5).
		Scan(&topPrompts)
	stats.TopPrompts = topPrompts

	// Son 7 günün istatistikleri
	dailyStats := make([]DailyStat, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := time.Now().AddDate(0, 0, -i).Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)

		var stat DailyStat
		stat.Date = dayStart.Format("2006-01-02")

		db.Model(&model.Mention{}).
			Joins("JOIN brands ON brands.id = mentions.brand_id").
			Where("brands.user_id = ? AND mentions.captured_at >= ? AND mentions.captured_at < ?",
				claims.UserID, dayStart, dayEnd).
			Count(&stat.Runs)

		db.Model(&model.Mention{}).
			Joins("JOIN brands ON brands.id = mentions.brand_id").
			Where("brands.user_id = ? AND mentions.mentioned = ? AND mentions.captured_at >= ? AND mentions.captured_at < ?",
				claims.UserID, true, dayStart, dayEnd).
			Count(&stat.Mentions)

		dailyStats = append(dailyStats, stat)
	}
	stats.DailyStats = dailyStats

	// Platform kırılımı
	var platformStats []PlatformStat
	db.Table("mentions").
		Select("mentions.platform, COUNT(mentions.id) as runs, SUM(CASE WHEN mentions.mentioned THEN 1 ELSE 0 END) as mentions").
		Joins("JOIN brands ON brands.id = mentions.brand_id").
		Where("brands.user_id = ?", claims.UserID).
		Group("mentions.platform").
		Scan(&platformStats)
	for i := range platformStats {
		if platformStats[i].Runs > 0 {
			platformStats[i].Rate = float64(platformStats[i].Mentions) / float64(platformStats[i].Runs) * 100
		}
	}
	stats.PlatformStats = platformStats

	return c.JSON(stats)
}

// GetBrandStats tek marka için istatistik özeti
func GetBrandStats(c *fiber.Ctx) error {
	brand, err := ownedBrand(c, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brand not found",
		})
	}

	var stats model.BrandStats
	if err := database.GetDB().Where("brand_id = ?", brand.ID).First(&stats).Error; err != nil {
		// Henüz hiç sonuç yoksa boş istatistik dön
		stats = model.BrandStats{BrandID: brand.ID}
	}

	return c.JSON(stats)
}

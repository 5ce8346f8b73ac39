// pkg/cron/visibility_stats.go
package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"mentha_backend/pkg/database"
	"mentha_backend/pkg/email"
)

type UserVisibilityStats struct {
	UserID        uint
	UserEmail     string
	CompanyName   string
	TotalRuns     int64
	TotalMentions int64
	TopBrand      string
	TopBrandScore float64
}

const (
	weeklyReportSpec  = "0 8 * * 1" // Pazartesi 08:00
	monthlyReportSpec = "0 8 1 * *" // ayın 1'i 08:00
)

func InitVisibilityReportCron() {
	c := cron.New()

	if _, err := c.AddFunc(weeklyReportSpec, sendWeeklyVisibilityReports); err != nil {
		log.Printf("Could not schedule weekly visibility reports: %v", err)
	}
	if _, err := c.AddFunc(monthlyReportSpec, sendMonthlyVisibilityReports); err != nil {
		log.Printf("Could not schedule monthly visibility reports: %v", err)
	}

	c.Start()
}

func sendWeeklyVisibilityReports() {
	startDate := time.Now().AddDate(0, 0, -7)
	sendVisibilityReports(startDate, "weekly")
}

func sendMonthlyVisibilityReports() {
	startDate := time.Now().AddDate(0, -1, 0)
	sendVisibilityReports(startDate, "monthly")
}

func sendVisibilityReports(startDate time.Time, period string) {
	if email.GlobalEmailService == nil {
		return
	}

	var stats []UserVisibilityStats

	err := database.GetDB().Raw(`
        SELECT
            users.id AS user_id,
            users.email AS user_email,
            users.company_name,
            COUNT(mentions.id) AS total_runs,
            SUM(CASE WHEN mentions.mentioned THEN 1 ELSE 0 END) AS total_mentions
        FROM users
        JOIN brands ON brands.user_id = users.id AND brands.deleted_at IS NULL
        JOIN mentions ON mentions.brand_id = brands.id AND mentions.captured_at >= ?
        WHERE users.deleted_at IS NULL
        GROUP BY users.id, users.email, users.company_name
        HAVING COUNT(mentions.id) > 0
    `, startDate).Scan(&stats).Error
	if err != nil {
		log.Printf("Error fetching %s visibility stats: %v", period, err)
		return
	}

	log.Printf("Sending %s visibility reports to %d users", period, len(stats))

	for _, stat := range stats {
		// Kullanıcının en görünür markası
		var top struct {
			Name  string
			Score float64
		}
		database.GetDB().Raw(`
            SELECT brands.name, brand_stats.visibility_score AS score
            FROM brand_stats
            JOIN brands ON brands.id = brand_stats.brand_id
            WHERE brands.user_id = ? AND brands.deleted_at IS NULL
            ORDER BY brand_stats.visibility_score DESC
            LIMIT 1
        `, stat.UserID).Scan(&top)

		mentionRate := 0.0
		if stat.TotalRuns > 0 {
			mentionRate = float64(stat.TotalMentions) / float64(stat.TotalRuns) * 100
		}

		err := email.GlobalEmailService.SendVisibilityReport(
			stat.UserEmail,
			stat.CompanyName,
			period,
			stat.TotalRuns,
			stat.TotalMentions,
			mentionRate,
			top.Name,
			top.Score,
			startDate,
		)
		if err != nil {
			log.Printf("Error sending visibility report to %s: %v", stat.UserEmail, err)
		}
	}
}

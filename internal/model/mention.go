package model

import (
	"time"

	"gorm.io/gorm"
)

// Mention bir prompt çalıştırmasının sonucu. Marka cevapta geçmese bile
// kayıt atılır (Mentioned=false), mention oranı bu şekilde hesaplanır.
type Mention struct {
	gorm.Model
	BrandID  uint       `json:"brand_id" gorm:"index"`
	PromptID uint       `json:"prompt_id" gorm:"index"`
	Platform AIPlatform `json:"platform" gorm:"index;not null"`

	Mentioned bool   `json:"mentioned" gorm:"default:false"`
	Position  int    `json:"position"` // cevaptaki sıra, 0 = geçmiyor
	Sentiment string `json:"sentiment"`
	Cited     bool   `json:"cited"` // marka sitesine link verilmiş mi
	Snippet   string `json:"snippet" gorm:"type:text"`

	CapturedAt time.Time `json:"captured_at" gorm:"index"`

	// İlişkiler
	Brand  Brand  `json:"-" gorm:"foreignKey:BrandID"`
	Prompt Prompt `json:"-" gorm:"foreignKey:PromptID"`
}

// BrandStats marka başına görünürlük istatistikleri
type BrandStats struct {
	gorm.Model
	BrandID         uint      `json:"brand_id" gorm:"uniqueIndex"`
	TotalRuns       int64     `json:"total_runs"`       // toplam prompt çalıştırması
	TotalMentions   int64     `json:"total_mentions"`   // markanın geçtiği cevap sayısı
	TotalCitations  int64     `json:"total_citations"`  // link verilen cevap sayısı
	MentionRate     float64   `json:"mention_rate"`     // yüzde
	AvgPosition     float64   `json:"avg_position"`     // geçtiği cevaplardaki ortalama sıra
	VisibilityScore float64   `json:"visibility_score"` // 0-100
	LastUpdated     time.Time `json:"last_updated"`

	// İlişkiler
	Brand Brand `json:"-" gorm:"foreignKey:BrandID"`
}

// BeforeCreate yakalama zamanı gelmemişse şimdiki zamanı kullan
func (m *Mention) BeforeCreate(tx *gorm.DB) error {
	if m.CapturedAt.IsZero() {
		m.CapturedAt = time.Now()
	}
	return nil
}

// AfterCreate yeni sonuç kaydedildikten sonra marka istatistiklerini günceller
func (m *Mention) AfterCreate(tx *gorm.DB) error {
	// Hook'un tx'i hâlâ mention insert'ine bağlı, sorgular temiz session'dan gider
	db := tx.Session(&gorm.Session{NewDB: true})

	var stats BrandStats
	if err := db.FirstOrCreate(&stats, BrandStats{BrandID: m.BrandID}).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_runs":   gorm.Expr("total_runs + ?", 1),
		"last_updated": time.Now(),
	}
	if m.Mentioned {
		updates["total_mentions"] = gorm.Expr("total_mentions + ?", 1)
	}
	if m.Cited {
		updates["total_citations"] = gorm.Expr("total_citations + ?", 1)
	}

	if err := db.Model(&stats).Updates(updates).Error; err != nil {
		return err
	}

	return recomputeDerivedStats(db, m.BrandID)
}

// recomputeDerivedStats oran ve skorları sayaçlardan türetir
func recomputeDerivedStats(tx *gorm.DB, brandID uint) error {
	var stats BrandStats
	if err := tx.Where("brand_id = ?", brandID).First(&stats).Error; err != nil {
		return err
	}

	if stats.TotalRuns == 0 {
		return nil
	}

	var avgPosition float64
	tx.Model(&Mention{}).
		Where("brand_id = ? AND mentioned = ? AND position > 0", brandID, true).
		Select("COALESCE(AVG(position), 0)").
		Scan(&avgPosition)

	mentionRate := float64(stats.TotalMentions) / float64(stats.TotalRuns) * 100
	citationRate := float64(stats.TotalCitations) / float64(stats.TotalRuns) * 100

	// Görünürlük skoru: mention oranı ağırlıklı, atıf ve üst sıra bonusu
	positionBonus := 0.0
	if avgPosition > 0 {
		positionBonus = 10 / avgPosition
	}
	score := mentionRate*0.7 + citationRate*0.2 + positionBonus
	if score > 100 {
		score = 100
	}

	return tx.Model(&BrandStats{}).Where("brand_id = ?", brandID).
		Updates(map[string]interface{}{
			"mention_rate":     mentionRate,
			"avg_position":     avgPosition,
			"visibility_score": score,
		}).Error
}

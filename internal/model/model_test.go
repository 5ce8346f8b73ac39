package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Brand{}, &Prompt{}, &Mention{}, &BrandStats{}))
	return db
}

func TestBrandSlugGeneratedOnCreate(t *testing.T) {
	db := testDB(t)

	brand := Brand{Name: "Açme Labs", UserID: 1}
	require.NoError(t, db.Create(&brand).Error)
	assert.Equal(t, "acme-labs", brand.Slug)
}

func TestBrandSlugUniquePerUser(t *testing.T) {
	db := testDB(t)

	first := Brand{Name: "Acme", UserID: 1}
	require.NoError(t, db.Create(&first).Error)

	second := Brand{Name: "Acme", UserID: 1}
	require.NoError(t, db.Create(&second).Error)
	assert.NotEqual(t, first.Slug, second.Slug)

	// Başka kullanıcıda aynı slug serbest
	other := Brand{Name: "Acme", UserID: 2}
	require.NoError(t, db.Create(&other).Error)
	assert.Equal(t, "acme", other.Slug)
}

func TestMentionUpdatesBrandStats(t *testing.T) {
	db := testDB(t)

	brand := Brand{Name: "Acme", UserID: 1}
	require.NoError(t, db.Create(&brand).Error)
	prompt := Prompt{BrandID: brand.ID, Text: "best crm?", Active: true}
	require.NoError(t, db.Create(&prompt).Error)

	mentions := []Mention{
		{BrandID: brand.ID, PromptID: prompt.ID, Platform: PlatformChatGPT, Mentioned: true, Position: 2, Cited: true},
		{BrandID: brand.ID, PromptID: prompt.ID, Platform: PlatformClaude, Mentioned: true, Position: 4},
		{BrandID: brand.ID, PromptID: prompt.ID, Platform: PlatformGemini, Mentioned: false},
		{BrandID: brand.ID, PromptID: prompt.ID, Platform: PlatformPerplexity, Mentioned: false},
	}
	for i := range mentions {
		require.NoError(t, db.Create(&mentions[i]).Error)
	}

	// Hook mention tablosuna ikinci bir insert atmamalı
	var mentionCount int64
	require.NoError(t, db.Model(&Mention{}).Count(&mentionCount).Error)
	assert.Equal(t, int64(4), mentionCount)

	var stats BrandStats
	require.NoError(t, db.Where("brand_id = ?", brand.ID).First(&stats).Error)
	assert.Equal(t, int64(4), stats.TotalRuns)
	assert.Equal(t, int64(2), stats.TotalMentions)
	assert.Equal(t, int64(1), stats.TotalCitations)
	assert.InDelta(t, 50.0, stats.MentionRate, 0.01)
	assert.InDelta(t, 3.0, stats.AvgPosition, 0.01)
	assert.Greater(t, stats.VisibilityScore, 0.0)
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestMentionCapturedAtDefaultsToNow(t *testing.T) {
	db := testDB(t)

	mention := Mention{BrandID: 1, PromptID: 1, Platform: PlatformChatGPT}
	require.NoError(t, db.Create(&mention).Error)
	assert.False(t, mention.CapturedAt.IsZero())
}

func TestSubscriptionIsEntitled(t *testing.T) {
	entitled := []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusTrialing}
	for _, status := range entitled {
		sub := Subscription{Status: status}
		assert.True(t, sub.IsEntitled(), "status %s", status)
	}

	notEntitled := []SubscriptionStatus{
		SubscriptionStatusPastDue,
		SubscriptionStatusCanceled,
		SubscriptionStatusIncomplete,
		SubscriptionStatusIncompleteExpired,
		SubscriptionStatusUnpaid,
		SubscriptionStatusPaused,
	}
	for _, status := range notEntitled {
		sub := Subscription{Status: status}
		assert.False(t, sub.IsEntitled(), "status %s", status)
	}
}

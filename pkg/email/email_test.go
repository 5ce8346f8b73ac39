package email

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionEndingTemplateRenders(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	periodEnd := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "subscription_ending.html", SubscriptionEndingData{
		CompanyName: "Acme",
		PlanName:    "pro",
		PeriodEnd:   periodEnd,
		DaysLeft:    7,
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "ends in 7 days")
	assert.Contains(t, html, "September 15, 2026")
	// İptal onayı gibi okunmamalı
	assert.NotContains(t, html, "has been cancelled")
}

func TestAllTemplatesParse(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	expected := []string{
		"welcome.html",
		"subscription_started.html",
		"subscription_cancelled.html",
		"subscription_ending.html",
		"payment_failed.html",
		"visibility_report.html",
		"password_reset.html",
		"password_changed.html",
	}
	for _, name := range expected {
		assert.NotNil(t, templates.Lookup(name), name)
	}
}

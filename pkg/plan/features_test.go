package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mentha_backend/internal/model"
)

func TestFromName(t *testing.T) {
	assert.Equal(t, StarterPlan, FromName("starter"))
	assert.Equal(t, ProPlan, FromName("Pro"))
	assert.Equal(t, AgencyPlan, FromName("AGENCY"))
	assert.Equal(t, FreePlan, FromName(""))
	assert.Equal(t, FreePlan, FromName("enterprise"))
}

func TestFromSubscription(t *testing.T) {
	assert.Equal(t, FreePlan, FromSubscription(nil))

	active := &model.Subscription{Status: model.SubscriptionStatusActive, PlanName: "pro"}
	assert.Equal(t, ProPlan, FromSubscription(active))

	trialing := &model.Subscription{Status: model.SubscriptionStatusTrialing, PlanName: "agency"}
	assert.Equal(t, AgencyPlan, FromSubscription(trialing))

	// Ödeme düşmeyince plana bakılmaksızın Free'ye iner
	pastDue := &model.Subscription{Status: model.SubscriptionStatusPastDue, PlanName: "pro"}
	assert.Equal(t, FreePlan, FromSubscription(pastDue))

	canceled := &model.Subscription{Status: model.SubscriptionStatusCanceled, PlanName: "starter"}
	assert.Equal(t, FreePlan, FromSubscription(canceled))
}

func TestCanUseFeature(t *testing.T) {
	assert.False(t, CanUseFeature(FreePlan, CSVExport))
	assert.True(t, CanUseFeature(StarterPlan, CSVExport))
	assert.False(t, CanUseFeature(StarterPlan, CompetitorTracking))
	assert.True(t, CanUseFeature(ProPlan, CompetitorTracking))
	assert.False(t, CanUseFeature(ProPlan, APIAccess))
	assert.True(t, CanUseFeature(AgencyPlan, APIAccess))
	assert.False(t, CanUseFeature(PlanType("unknown"), CSVExport))
}

func TestPlanLimitsAreIncreasing(t *testing.T) {
	assert.Less(t, GetPlanLimits(FreePlan).MaxBrands, GetPlanLimits(ProPlan).MaxBrands)
	assert.Less(t, GetPlanLimits(ProPlan).MaxBrands, GetPlanLimits(AgencyPlan).MaxBrands)
	assert.Less(t, GetPlanLimits(StarterPlan).MaxPrompts, GetPlanLimits(ProPlan).MaxPrompts)
}

func TestPriceIDReadsEnv(t *testing.T) {
	t.Setenv("STRIPE_PRICE_PRO_MONTH", "price_pro_month")
	t.Setenv("STRIPE_PRICE_AGENCY_YEAR", "price_agency_year")

	assert.Equal(t, "price_pro_month", PriceID(ProPlan, model.BillingIntervalMonth))
	assert.Equal(t, "price_agency_year", PriceID(AgencyPlan, model.BillingIntervalYear))
	assert.Empty(t, PriceID(StarterPlan, model.BillingIntervalMonth))
}

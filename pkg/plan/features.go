package plan

import (
	"fmt"
	"os"
	"strings"

	"mentha_backend/internal/model"
)

type PlanType string
type Feature string

const (
	FreePlan    PlanType = "free"
	StarterPlan PlanType = "starter"
	ProPlan     PlanType = "pro"
	AgencyPlan  PlanType = "agency"
)

const (
	CompetitorTracking Feature = "competitor_tracking"
	CSVExport          Feature = "csv_export"
	APIAccess          Feature = "api_access"
	EmailSupport       Feature = "email_support"
	PrioritySupport    Feature = "priority_support"
)

type PlanLimits struct {
	MaxBrands       int
	MaxPrompts      int // marka başına
	AllowedFeatures map[Feature]bool
}

var PlanFeatures = map[PlanType]PlanLimits{
	FreePlan: {
		MaxBrands:  1,
		MaxPrompts: 5,
		AllowedFeatures: map[Feature]bool{
			CompetitorTracking: false,
			CSVExport:          false,
			APIAccess:          false,
			EmailSupport:       false,
			PrioritySupport:    false,
		},
	},
	StarterPlan: {
		MaxBrands:  1,
		MaxPrompts: 25,
		AllowedFeatures: map[Feature]bool{
			CompetitorTracking: false,
			CSVExport:          true,
			APIAccess:          false,
			EmailSupport:       true,
			PrioritySupport:    false,
		},
	},
	ProPlan: {
		MaxBrands:  5,
		MaxPrompts: 100,
		AllowedFeatures: map[Feature]bool{
			CompetitorTracking: true,
			CSVExport:          true,
			APIAccess:          false,
			EmailSupport:       true,
			PrioritySupport:    false,
		},
	},
	AgencyPlan: {
		MaxBrands:  25,
		MaxPrompts: 500,
		AllowedFeatures: map[Feature]bool{
			CompetitorTracking: true,
			CSVExport:          true,
			APIAccess:          true,
			EmailSupport:       true,
			PrioritySupport:    true,
		},
	},
}

// Helper functions
func CanUseFeature(plan PlanType, feature Feature) bool {
	limits, exists := PlanFeatures[plan]
	if !exists {
		return false
	}
	return limits.AllowedFeatures[feature]
}

func GetPlanLimits(plan PlanType) PlanLimits {
	return PlanFeatures[plan]
}

// FromName checkout metadata'sındaki plan adından plan tipini belirler
func FromName(name string) PlanType {
	switch strings.ToLower(name) {
	case "starter":
		return StarterPlan
	case "pro":
		return ProPlan
	case "agency":
		return AgencyPlan
	default:
		return FreePlan
	}
}

// FromSubscription abonelik kaydından geçerli plan tipini belirler.
// Kayıt yoksa veya entitle değilse Free'ye düşer.
func FromSubscription(sub *model.Subscription) PlanType {
	if sub == nil || !sub.IsEntitled() {
		return FreePlan
	}
	return FromName(sub.PlanName)
}

// PriceID plan + periyot için Stripe price id'sini env'den okur.
// Örn: STRIPE_PRICE_PRO_MONTH, STRIPE_PRICE_AGENCY_YEAR
func PriceID(plan PlanType, interval model.BillingInterval) string {
	key := fmt.Sprintf("STRIPE_PRICE_%s_%s",
		strings.ToUpper(string(plan)),
		strings.ToUpper(string(interval)),
	)
	return os.Getenv(key)
}

// PaidPlans checkout'ta sunulan planlar
func PaidPlans() []PlanType {
	return []PlanType{StarterPlan, ProPlan, AgencyPlan}
}

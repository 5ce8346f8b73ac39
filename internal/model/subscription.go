package model

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus Stripe'ın abonelik durumu. Event'ten geldiği gibi saklanır,
// geçişler her zaman webhook tarafından yazılır.
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
)

// BillingInterval faturalama periyodu
type BillingInterval string

const (
	BillingIntervalMonth BillingInterval = "month"
	BillingIntervalYear  BillingInterval = "year"
)

// Subscription kullanıcı başına tek kayıt. Checkout tamamlandığında oluşturulur,
// sonraki tüm eventler stripe_customer_id üzerinden eşleşir.
type Subscription struct {
	gorm.Model
	UserID               uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	StripeCustomerID     string             `json:"stripe_customer_id" gorm:"index;not null"`
	StripeSubscriptionID string             `json:"stripe_subscription_id"`
	StripePriceID        string             `json:"stripe_price_id"`
	Status               SubscriptionStatus `json:"status" gorm:"not null"`
	PlanName             string             `json:"plan_name"`
	BillingInterval      BillingInterval    `json:"billing_interval"`
	CurrentPeriodStart   time.Time          `json:"current_period_start"`
	CurrentPeriodEnd     time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd    bool               `json:"cancel_at_period_end"`

	// İlişkiler
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// IsEntitled aktif plan özelliklerine erişim hakkı var mı
func (s *Subscription) IsEntitled() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm/clause"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/email"
	"mentha_backend/pkg/plan"
	"mentha_backend/pkg/utils/jwt"
)

type CheckoutInput struct {
	PlanName        string `json:"plan_name" validate:"required"`
	BillingInterval string `json:"billing_interval" validate:"required"`
}

func InitSubscriptionController() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// ListPlans plan kataloğunu döner
func ListPlans(c *fiber.Ctx) error {
	plans := make([]fiber.Map, 0)
	for _, p := range plan.PaidPlans() {
		limits := plan.GetPlanLimits(p)
		features := make([]string, 0)
		for feature, allowed := range limits.AllowedFeatures {
			if allowed {
				features = append(features, string(feature))
			}
		}
		plans = append(plans, fiber.Map{
			"name":        string(p),
			"max_brands":  limits.MaxBrands,
			"max_prompts": limits.MaxPrompts,
			"features":    features,
		})
	}

	return c.JSON(plans)
}

// CreateCheckoutSession Stripe checkout oturumu açar. user_id, plan_name ve
// billing_interval metadata olarak eklenir, webhook bunları geri okur.
func CreateCheckoutSession(c *fiber.Ctx) error {
	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	interval := model.BillingInterval(input.BillingInterval)
	if interval != model.BillingIntervalMonth && interval != model.BillingIntervalYear {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid billing interval",
		})
	}

	priceID := plan.PriceID(plan.FromName(input.PlanName), interval)
	if priceID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	var user model.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	appURL := os.Getenv("APP_URL")
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(user.Email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(appURL + "/api/subscriptions/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(appURL + "/api/subscriptions/payment-cancelled"),
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))
	params.AddMetadata("plan_name", input.PlanName)
	params.AddMetadata("billing_interval", input.BillingInterval)

	checkoutSession, err := session.New(params)
	if err != nil {
		log.Printf("Could not create checkout session for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": checkoutSession.URL,
	})
}

// CancelSubscription dönem sonunda iptal işaretler. Kayıt güncellemesi
// Stripe'tan dönen customer.subscription.updated eventi ile yapılır.
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.GetDB().Preload("User").Where("user_id = ?", claims.UserID).First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	if !sub.IsEntitled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No active subscription to cancel",
		})
	}

	_, err := subscription.Update(sub.StripeSubscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			sub.User.Email,
			sub.User.CompanyName,
			sub.PlanName,
			sub.CurrentPeriodEnd,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription will be cancelled at the end of the billing period",
	})
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.GetDB().Where("user_id = ?", claims.UserID).First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No subscription found",
		})
	}

	return c.JSON(sub)
}

// HandleSubscriptionSuccess checkout sonrası başarı sayfası
func HandleSubscriptionSuccess(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment successful. Your subscription will be activated shortly.",
	})
}

// HandleSubscriptionCancel ödemeden vazgeçildi
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Payment cancelled",
	})
}

// Bilinen webhook event tipleri. Yeni tip eklenecekse buraya ve
// HandleStripeWebhook'taki switch'e eklenir, bilinmeyenler ack'lenir.
type stripeEventType string

const (
	eventCheckoutSessionCompleted    stripeEventType = "checkout.session.completed"
	eventCustomerSubscriptionUpdated stripeEventType = "customer.subscription.updated"
	eventCustomerSubscriptionDeleted stripeEventType = "customer.subscription.deleted"
	eventInvoicePaymentFailed        stripeEventType = "invoice.payment_failed"
)

// fetchStripeSubscription testlerde stub'lanabilmesi için değişken
var fetchStripeSubscription = func(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

// HandleStripeWebhook Stripe'tan gelen billing eventlerini abonelik kaydına
// uygular. İmza raw body üzerinden doğrulanır; handler'lar idempotent olduğu
// için aynı eventin tekrar teslimi güvenlidir.
func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")
	if signatureHeader == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No signature",
		})
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch stripeEventType(event.Type) {
	case eventCheckoutSessionCompleted:
		err = handleCheckoutSessionCompleted(event)
	case eventCustomerSubscriptionUpdated:
		err = handleSubscriptionUpdated(event)
	case eventCustomerSubscriptionDeleted:
		err = handleSubscriptionDeleted(event)
	case eventInvoicePaymentFailed:
		err = handleInvoicePaymentFailed(event)
	default:
		// Reddedilirse Stripe sonsuza kadar dener, bilinmeyen tipler ack'lenir
		log.Printf("Ignoring unhandled webhook event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("Error handling webhook event %s: %v", event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Webhook handler failed",
		})
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}

// handleCheckoutSessionCompleted abonelik kaydını oluşturur. user_id üzerinden
// upsert yapıldığı için aynı eventin tekrar teslimi tek kayıt bırakır.
func handleCheckoutSessionCompleted(event stripe.Event) error {
	var checkoutSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		return fmt.Errorf("could not parse checkout session: %w", err)
	}

	userIDValue := checkoutSession.Metadata["user_id"]
	planName := checkoutSession.Metadata["plan_name"]
	billingInterval := checkoutSession.Metadata["billing_interval"]

	// Eksik metadata bu event için asla tamamlanmaz, retry ettirmenin anlamı yok
	if userIDValue == "" || planName == "" || billingInterval == "" {
		log.Printf("Checkout session %s is missing required metadata, skipping", checkoutSession.ID)
		return nil
	}

	userID, err := strconv.ParseUint(userIDValue, 10, 32)
	if err != nil {
		log.Printf("Checkout session %s has invalid user_id %q, skipping", checkoutSession.ID, userIDValue)
		return nil
	}

	if checkoutSession.Subscription == nil || checkoutSession.Subscription.ID == "" {
		log.Printf("Checkout session %s has no subscription attached, skipping", checkoutSession.ID)
		return nil
	}

	// Checkout eventi her alanı taşımaz, abonelik detayları Stripe'tan çekilir
	stripeSub, err := fetchStripeSubscription(checkoutSession.Subscription.ID)
	if err != nil {
		return fmt.Errorf("could not fetch subscription %s: %w", checkoutSession.Subscription.ID, err)
	}

	customerID := ""
	if checkoutSession.Customer != nil {
		customerID = checkoutSession.Customer.ID
	}
	if customerID == "" && stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}

	sub := model.Subscription{
		UserID:               uint(userID),
		StripeCustomerID:     customerID,
		StripeSubscriptionID: stripeSub.ID,
		StripePriceID:        subscriptionPriceID(stripeSub),
		Status:               model.SubscriptionStatus(stripeSub.Status),
		PlanName:             planName,
		BillingInterval:      model.BillingInterval(billingInterval),
		CurrentPeriodStart:   time.Unix(stripeSub.CurrentPeriodStart, 0),
		CurrentPeriodEnd:     time.Unix(stripeSub.CurrentPeriodEnd, 0),
		CancelAtPeriodEnd:    stripeSub.CancelAtPeriodEnd,
	}

	err = database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id",
			"stripe_subscription_id",
			"stripe_price_id",
			"status",
			"plan_name",
			"billing_interval",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(&sub).Error
	if err != nil {
		return err
	}

	if email.GlobalEmailService != nil {
		var user model.User
		if err := database.DB.First(&user, sub.UserID).Error; err == nil {
			err := email.GlobalEmailService.SendSubscriptionStartedEmail(
				user.Email,
				user.CompanyName,
				planName,
				billingInterval,
				sub.CurrentPeriodEnd,
				false,
			)
			if err != nil {
				log.Printf("Could not send subscription email: %v", err)
			}
		}
	}

	return nil
}

// handleSubscriptionUpdated mevcut kaydı müşteri id'si üzerinden tazeler.
// Kayıt yoksa sessizce atlanır: update eventi user_id taşımadığı için
// buradan yeni kayıt oluşturulamaz (sıra dışı teslim durumu).
func handleSubscriptionUpdated(event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("could not parse subscription: %w", err)
	}

	if stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		log.Printf("Subscription event %s has no customer, skipping", stripeSub.ID)
		return nil
	}

	// map kullanılıyor ki false/sıfır değerler de yazılsın
	updates := map[string]interface{}{
		"stripe_subscription_id": stripeSub.ID,
		"stripe_price_id":        subscriptionPriceID(&stripeSub),
		"status":                 string(stripeSub.Status),
		"current_period_start":   time.Unix(stripeSub.CurrentPeriodStart, 0),
		"current_period_end":     time.Unix(stripeSub.CurrentPeriodEnd, 0),
		"cancel_at_period_end":   stripeSub.CancelAtPeriodEnd,
	}

	result := database.DB.Model(&model.Subscription{}).
		Where("stripe_customer_id = ?", stripeSub.Customer.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		log.Printf("No subscription record for customer %s, skipping update", stripeSub.Customer.ID)
	}

	return nil
}

func handleSubscriptionDeleted(event stripe.Event) error {
	var stripeSub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
		return fmt.Errorf("could not parse subscription: %w", err)
	}

	if stripeSub.Customer == nil || stripeSub.Customer.ID == "" {
		log.Printf("Subscription event %s has no customer, skipping", stripeSub.ID)
		return nil
	}

	// Kayıt silinmez, sadece durum canceled'a çekilir
	return setStatusByCustomer(stripeSub.Customer.ID, model.SubscriptionStatusCanceled)
}

func handleInvoicePaymentFailed(event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("could not parse invoice: %w", err)
	}

	if invoice.Customer == nil || invoice.Customer.ID == "" {
		log.Printf("Invoice event %s has no customer, skipping", invoice.ID)
		return nil
	}

	return setStatusByCustomer(invoice.Customer.ID, model.SubscriptionStatusPastDue)
}

func setStatusByCustomer(customerID string, status model.SubscriptionStatus) error {
	result := database.DB.Model(&model.Subscription{}).
		Where("stripe_customer_id = ?", customerID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		log.Printf("No subscription record for customer %s, skipping status change", customerID)
	}

	return nil
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}

package controller

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
)

const testWebhookSecret = "whsec_test_secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.LoginHistory{},
		&model.Brand{},
		&model.Prompt{},
		&model.Mention{},
		&model.BrandStats{},
		&model.Subscription{},
	))
	database.SetForTesting(db)

	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)

	return db
}

func webhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/webhook", HandleStripeWebhook)
	return app
}

func signatureHeader(payload []byte) string {
	ts := time.Now()
	signature := webhook.ComputeSignature(ts, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(signature))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, header string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Stripe-Signature", header)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func eventPayload(t *testing.T, eventType string, object map[string]interface{}) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"object":      "event",
		"api_version": "2022-11-15",
		"type":        eventType,
		"data": map[string]interface{}{
			"object": object,
		},
	})
	require.NoError(t, err)
	return payload
}

func checkoutSessionObject(metadata map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"id":           "cs_test_1",
		"object":       "checkout.session",
		"customer":     "cus_u1",
		"subscription": "sub_1",
		"metadata":     metadata,
	}
}

func stubSubscriptionFetch(t *testing.T, sub *stripe.Subscription, err error) {
	t.Helper()

	original := fetchStripeSubscription
	fetchStripeSubscription = func(id string) (*stripe.Subscription, error) {
		return sub, err
	}
	t.Cleanup(func() { fetchStripeSubscription = original })
}

func activeStripeSubscription() *stripe.Subscription {
	return &stripe.Subscription{
		ID:                 "sub_1",
		Status:             stripe.SubscriptionStatusActive,
		CancelAtPeriodEnd:  false,
		CurrentPeriodStart: time.Now().Unix(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0).Unix(),
		Customer:           &stripe.Customer{ID: "cus_u1"},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{ID: "price_pro_month"}},
			},
		},
	}
}

func subscriptionCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Subscription{}).Count(&count).Error)
	return count
}

func deliverCheckoutCompleted(t *testing.T, app *fiber.App) *http.Response {
	payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject(map[string]interface{}{
		"user_id":          "1",
		"plan_name":        "pro",
		"billing_interval": "month",
	}))
	return postWebhook(t, app, payload, signatureHeader(payload))
}

func TestWebhookRequiresSignature(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject(map[string]interface{}{
		"user_id": "1",
	}))

	resp := postWebhook(t, app, payload, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"No signature"}`, string(body))
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject(map[string]interface{}{
		"user_id":          "1",
		"plan_name":        "pro",
		"billing_interval": "month",
	}))
	header := signatureHeader(payload)

	// İmza orijinal body üzerinden, içerik bir byte değiştirildi
	tampered := bytes.Replace(payload, []byte(`"pro"`), []byte(`"agy"`), 1)
	require.NotEqual(t, payload, tampered)

	resp := postWebhook(t, app, tampered, header)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, string(body))
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

func TestCheckoutCompletedCreatesSubscription(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	resp := deliverCheckoutCompleted(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"received":true}`, string(body))

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ?", 1).First(&sub).Error)
	assert.Equal(t, "cus_u1", sub.StripeCustomerID)
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID)
	assert.Equal(t, "price_pro_month", sub.StripePriceID)
	assert.Equal(t, model.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "pro", sub.PlanName)
	assert.Equal(t, model.BillingIntervalMonth, sub.BillingInterval)
	assert.False(t, sub.CancelAtPeriodEnd)
}

func TestCheckoutCompletedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	resp := deliverCheckoutCompleted(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = deliverCheckoutCompleted(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(1), subscriptionCount(t, db))
}

func TestCheckoutCompletedMissingMetadataIsAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	// plan_name yok: işlenmez ama Stripe'a başarı dönülür
	payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject(map[string]interface{}{
		"user_id":          "1",
		"billing_interval": "month",
	}))

	resp := postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

func TestCheckoutCompletedFetchFailureReturns500(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, nil, fmt.Errorf("stripe unavailable"))

	resp := deliverCheckoutCompleted(t, app)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Webhook handler failed"}`, string(body))
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

func TestSubscriptionUpdatedRefreshesRecord(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	resp := deliverCheckoutCompleted(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	newPeriodEnd := time.Now().AddDate(1, 0, 0).Unix()
	payload := eventPayload(t, "customer.subscription.updated", map[string]interface{}{
		"id":                   "sub_2",
		"object":               "subscription",
		"customer":             "cus_u1",
		"status":               "active",
		"cancel_at_period_end": true,
		"current_period_start": time.Now().Unix(),
		"current_period_end":   newPeriodEnd,
		"items": map[string]interface{}{
			"data": []map[string]interface{}{
				{"price": map[string]interface{}{"id": "price_pro_year"}},
			},
		},
	})

	resp = postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sub model.Subscription
	require.NoError(t, db.Where("stripe_customer_id = ?", "cus_u1").First(&sub).Error)
	assert.Equal(t, "sub_2", sub.StripeSubscriptionID)
	assert.Equal(t, "price_pro_year", sub.StripePriceID)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, newPeriodEnd, sub.CurrentPeriodEnd.Unix())
	// plan_name oluşturma eventinden gelir, update dokunmaz
	assert.Equal(t, "pro", sub.PlanName)
}

func TestSubscriptionUpdatedWithoutRecordIsNoop(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	payload := eventPayload(t, "customer.subscription.updated", map[string]interface{}{
		"id":       "sub_orphan",
		"object":   "subscription",
		"customer": "cus_unknown",
		"status":   "active",
	})

	resp := postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

func TestSubscriptionDeletedMarksCanceled(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	resp := deliverCheckoutCompleted(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var before model.Subscription
	require.NoError(t, db.Where("user_id = ?", 1).First(&before).Error)

	payload := eventPayload(t, "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"object":   "subscription",
		"customer": "cus_u1",
		"status":   "canceled",
	})

	resp = postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var after model.Subscription
	require.NoError(t, db.Where("user_id = ?", 1).First(&after).Error)
	assert.Equal(t, model.SubscriptionStatusCanceled, after.Status)

	// Durum dışındaki alanlar değişmemeli
	assert.Equal(t, before.StripeSubscriptionID, after.StripeSubscriptionID)
	assert.Equal(t, before.StripePriceID, after.StripePriceID)
	assert.Equal(t, before.PlanName, after.PlanName)
	assert.Equal(t, before.BillingInterval, after.BillingInterval)
	assert.Equal(t, before.CurrentPeriodEnd.Unix(), after.CurrentPeriodEnd.Unix())
}

func TestInvoicePaymentFailedMarksPastDue(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()
	stubSubscriptionFetch(t, activeStripeSubscription(), nil)

	resp := deliverCheckoutCompleted(t, app)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := eventPayload(t, "invoice.payment_failed", map[string]interface{}{
		"id":       "in_1",
		"object":   "invoice",
		"customer": "cus_u1",
	})

	resp = postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sub model.Subscription
	require.NoError(t, db.Where("user_id = ?", 1).First(&sub).Error)
	assert.Equal(t, model.SubscriptionStatusPastDue, sub.Status)
	assert.Equal(t, "sub_1", sub.StripeSubscriptionID)
}

func TestUnknownEventTypeIsAcknowledged(t *testing.T) {
	db := setupTestDB(t)
	app := webhookApp()

	payload := eventPayload(t, "customer.created", map[string]interface{}{
		"id":     "cus_new",
		"object": "customer",
	})

	resp := postWebhook(t, app, payload, signatureHeader(payload))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"received":true}`, string(body))
	assert.Equal(t, int64(0), subscriptionCount(t, db))
}

package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"mentha_backend/internal/model"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/email"
)

const dailyRenewalSpec = "0 9 * * *"

func InitSubscriptionRenewalCron() {
	c := cron.New()

	_, err := c.AddFunc(dailyRenewalSpec, func() {
		checkEndingSubscriptions()
		remindPastDueSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription renewal cron: %v", err)
		return
	}

	c.Start()
}

// checkEndingSubscriptions dönem sonunda iptal edilecek abonelikler için uyarı atar
func checkEndingSubscriptions() {
	if email.GlobalEmailService == nil {
		return
	}

	log.Println("Checking for ending subscriptions...")

	warningDays := []int{7, 3}

	for _, days := range warningDays {
		dayStart := time.Now().AddDate(0, 0, days).Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)

		var subs []model.Subscription
		err := database.GetDB().
			Where("cancel_at_period_end = ? AND status = ? AND current_period_end >= ? AND current_period_end < ?",
				true, model.SubscriptionStatusActive, dayStart, dayEnd).
			Preload("User").
			Find(&subs).Error
		if err != nil {
			log.Printf("Error fetching ending subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions ending in %d days", len(subs), days)

		for _, sub := range subs {
			err := email.GlobalEmailService.SendSubscriptionEndingSoonEmail(
				sub.User.Email,
				sub.User.CompanyName,
				sub.PlanName,
				sub.CurrentPeriodEnd,
				days,
			)
			if err != nil {
				log.Printf("Error sending ending warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}

// remindPastDueSubscriptions ödemesi başarısız abonelikleri hatırlatır
func remindPastDueSubscriptions() {
	if email.GlobalEmailService == nil {
		return
	}

	var subs []model.Subscription
	err := database.GetDB().
		Where("status = ?", model.SubscriptionStatusPastDue).
		Preload("User").
		Find(&subs).Error
	if err != nil {
		log.Printf("Error fetching past due subscriptions: %v", err)
		return
	}

	for _, sub := range subs {
		err := email.GlobalEmailService.SendPaymentFailedEmail(
			sub.User.Email,
			sub.User.CompanyName,
			sub.PlanName,
		)
		if err != nil {
			log.Printf("Error sending payment reminder to %s: %v", sub.User.Email, err)
		}
	}
}

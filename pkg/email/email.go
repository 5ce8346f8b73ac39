// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	CompanyName string
}

type SubscriptionEmailData struct {
	CompanyName string
	PlanName    string
	Interval    string
	PeriodEnd   time.Time
	IsRenewal   bool
}

type SubscriptionCancelledData struct {
	CompanyName string
	PlanName    string
	PeriodEnd   time.Time
}

type SubscriptionEndingData struct {
	CompanyName string
	PlanName    string
	PeriodEnd   time.Time
	DaysLeft    int
}

type PaymentFailedData struct {
	CompanyName string
	PlanName    string
}

type VisibilityReportData struct {
	CompanyName   string
	Period        string
	TotalRuns     int64
	TotalMentions int64
	MentionRate   float64
	TopBrand      string
	TopBrandScore float64
	StartDate     time.Time
}

type PasswordResetData struct {
	ResetLink string
}

type PasswordChangedData struct {
	Email string
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Mentha <noreply@mentha.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Sent %s email to %s", templateName, to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, companyName string) error {
	data := WelcomeEmailData{
		CompanyName: companyName,
	}
	return s.sendTemplateEmail(email, "Welcome to Mentha! 🌿", "welcome.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(
	email, companyName, planName, interval string,
	periodEnd time.Time,
	isRenewal bool,
) error {
	data := SubscriptionEmailData{
		CompanyName: companyName,
		PlanName:    planName,
		Interval:    interval,
		PeriodEnd:   periodEnd,
		IsRenewal:   isRenewal,
	}

	subject := "Welcome to Mentha Premium! 🎉"
	if isRenewal {
		subject = "Your Mentha Subscription Has Been Renewed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, companyName, planName string, periodEnd time.Time) error {
	data := SubscriptionCancelledData{
		CompanyName: companyName,
		PlanName:    planName,
		PeriodEnd:   periodEnd,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

// SendSubscriptionEndingSoonEmail dönem sonunda kapanacak abonelik için
// hatırlatma. İptal onayı maili değil, plan hâlâ aktif.
func (s *EmailService) SendSubscriptionEndingSoonEmail(email, companyName, planName string, periodEnd time.Time, daysLeft int) error {
	data := SubscriptionEndingData{
		CompanyName: companyName,
		PlanName:    planName,
		PeriodEnd:   periodEnd,
		DaysLeft:    daysLeft,
	}
	subject := fmt.Sprintf("Your Mentha Subscription Ends in %d Days ⏳", daysLeft)
	return s.sendTemplateEmail(email, subject, "subscription_ending.html", data)
}

func (s *EmailService) SendPaymentFailedEmail(email, companyName, planName string) error {
	data := PaymentFailedData{
		CompanyName: companyName,
		PlanName:    planName,
	}
	return s.sendTemplateEmail(email, "Payment Failed — Action Required ⚠️", "payment_failed.html", data)
}

func (s *EmailService) SendVisibilityReport(
	email, companyName, period string,
	totalRuns, totalMentions int64,
	mentionRate float64,
	topBrand string, topBrandScore float64,
	startDate time.Time,
) error {
	data := VisibilityReportData{
		CompanyName:   companyName,
		Period:        period,
		TotalRuns:     totalRuns,
		TotalMentions: totalMentions,
		MentionRate:   mentionRate,
		TopBrand:      topBrand,
		TopBrandScore: topBrandScore,
		StartDate:     startDate,
	}
	return s.sendTemplateEmail(email, "Your AI Visibility Report 📊", "visibility_report.html", data)
}

func (s *EmailService) SendPasswordResetEmail(email, resetToken string) error {
	data := PasswordResetData{
		ResetLink: fmt.Sprintf("https://app.mentha.app/reset-password?token=%s", resetToken),
	}
	return s.sendTemplateEmail(email, "Reset Your Password 🔒", "password_reset.html", data)
}

func (s *EmailService) SendPasswordChangedEmail(email string) error {
	data := PasswordChangedData{
		Email: email,
	}
	return s.sendTemplateEmail(email, "Your Password Has Been Changed 🔐", "password_changed.html", data)
}

package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"mentha_backend/internal/controller"
	"mentha_backend/internal/middleware"
	"mentha_backend/internal/model"
	"mentha_backend/pkg/config"
	"mentha_backend/pkg/cron"
	"mentha_backend/pkg/database"
	"mentha_backend/pkg/email"
	"mentha_backend/pkg/plan"
	"mentha_backend/pkg/seed"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/request-reset", controller.RequestPasswordReset)
	auth.Post("/reset-password", controller.ResetPassword)

	// Public brand report
	api.Get("/r/:username/:brand_slug", controller.GetPublicBrandReport)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Brand routes with plan limits
	brands := protected.Group("/brands")
	brands.Get("/", controller.ListMyBrands)
	brands.Post("/", middleware.CheckBrandLimit(), controller.CreateBrand)
	brands.Get("/:id", controller.GetBrand)
	brands.Put("/:id", controller.UpdateBrand)
	brands.Delete("/:id", controller.DeleteBrand)
	brands.Get("/:id/stats", controller.GetBrandStats)
	brands.Post("/:id/logo", controller.UploadBrandLogo)

	// Prompt routes
	prompts := protected.Group("/brands/:brand_id/prompts")
	prompts.Get("/", controller.ListPrompts)
	prompts.Post("/", middleware.CheckPromptLimit(), controller.CreatePrompt)
	prompts.Put("/:id", controller.UpdatePrompt)
	prompts.Delete("/:id", controller.DeletePrompt)

	// Mention routes
	protected.Get("/brands/:brand_id/mentions", controller.ListMentions)
	protected.Get("/brands/:brand_id/mentions/export",
		middleware.CheckFeatureAccess(plan.CSVExport), controller.ExportMentionsCSV)

	// Crawler ingest (servis hesabı, kullanıcı auth'u yok)
	api.Post("/ingest/mentions", middleware.CrawlerAuthMiddleware(), controller.IngestMention)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/create-checkout-session", controller.CreateCheckoutSession)
	subProtected.Post("/cancel-subscription", controller.CancelSubscription)
	subProtected.Get("/my", controller.GetMySubscription)

	// Stripe checkout süreç sonuçları
	subscriptions.Get("/payment-success", controller.HandleSubscriptionSuccess)
	subscriptions.Get("/payment-cancelled", controller.HandleSubscriptionCancel)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Eksik zorunlu konfigürasyon burada patlar, request anında değil
	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Printf("Email service disabled: %v", err)
	}

	controller.InitAuthController()
	controller.InitSubscriptionController()

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.LoginHistory{},
		&model.Subscription{},
		&model.Brand{},
		&model.Prompt{},
		&model.Mention{},
		&model.BrandStats{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		seed.SeedDemoData(database.GetDB())
	}

	cron.InitVisibilityReportCron()
	cron.InitSubscriptionRenewalCron()

	// Plan kataloğu price id'leri eksikse erken uyar
	for _, p := range plan.PaidPlans() {
		if plan.PriceID(p, model.BillingIntervalMonth) == "" {
			log.Printf("Warning: no Stripe price configured for plan %s (month)", p)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

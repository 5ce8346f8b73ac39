package seed

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mentha_backend/internal/model"
)

// SeedDemoData geliştirme ortamı için örnek kullanıcı ve marka oluşturur
func SeedDemoData(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing demo password: %v", err)
		return
	}

	user := model.User{
		Email:       "demo@mentha.app",
		Password:    string(hashed),
		Username:    "demo",
		CompanyName: "Demo Co",
		IsVerified:  true,
	}
	if err := db.FirstOrCreate(&user, model.User{Email: user.Email}).Error; err != nil {
		log.Printf("Error seeding demo user: %v", err)
		return
	}

	brand := model.Brand{
		Name:     "Demo Brand",
		Domain:   "demo.example.com",
		UserID:   user.ID,
		Keywords: datatypes.JSON([]byte(`["project management","team collaboration"]`)),
	}
	if err := db.FirstOrCreate(&brand, model.Brand{UserID: user.ID, Name: brand.Name}).Error; err != nil {
		log.Printf("Error seeding demo brand: %v", err)
		return
	}

	prompts := []model.Prompt{
		{BrandID: brand.ID, Text: "What is the best project management tool for small teams?", Topic: "comparison", Active: true},
		{BrandID: brand.ID, Text: "Which collaboration software do remote startups use?", Topic: "discovery", Active: true},
	}
	for _, prompt := range prompts {
		if err := db.FirstOrCreate(&prompt, model.Prompt{BrandID: brand.ID, Text: prompt.Text}).Error; err != nil {
			log.Printf("Error seeding demo prompt: %v", err)
		}
	}

	log.Println("Demo data seeded successfully!")
}

package model

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Brand izlenen marka. Public rapor sayfası slug üzerinden servis edilir.
type Brand struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex:idx_user_brand_slug;not null"`
	Domain      string `json:"domain"`
	Description string `json:"description" gorm:"type:text"`
	LogoURL     string `json:"logo_url"`

	UserID uint `json:"user_id" gorm:"uniqueIndex:idx_user_brand_slug;index"`

	// Esnek alanlar
	Keywords    datatypes.JSON `json:"keywords"`    // izlenen anahtar kelimeler
	Competitors datatypes.JSON `json:"competitors"` // karşılaştırılan rakip markalar

	// İlişkiler
	User    User     `json:"-" gorm:"foreignKey:UserID"`
	Prompts []Prompt `json:"prompts,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate marka oluşturulurken slug'ı otomatik oluşturur
func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.Slug == "" {
		s := slug.Make(b.Name)

		// Aynı kullanıcıda slug çakışmasını önle
		var count int64
		tx.Model(&Brand{}).Where("user_id = ? AND slug = ?", b.UserID, s).Count(&count)
		if count > 0 {
			var total int64
			tx.Model(&Brand{}).Where("user_id = ?", b.UserID).Count(&total)
			s = fmt.Sprintf("%s-%d", s, total+1)
		}

		b.Slug = s
	}
	return nil
}

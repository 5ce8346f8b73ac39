package model

import "gorm.io/gorm"

// AIPlatform cevapları izlenen asistan platformu
type AIPlatform string

const (
	PlatformChatGPT    AIPlatform = "chatgpt"
	PlatformClaude     AIPlatform = "claude"
	PlatformGemini     AIPlatform = "gemini"
	PlatformPerplexity AIPlatform = "perplexity"
	PlatformCopilot    AIPlatform = "copilot"
)

// Prompt asistanlara düzenli olarak sorulan ve cevabında marka aranan soru
type Prompt struct {
	gorm.Model
	BrandID uint   `json:"brand_id" gorm:"index;not null"`
	Text    string `json:"text" gorm:"type:text;not null"`
	Topic   string `json:"topic"`
	Active  bool   `json:"active" gorm:"default:true"`

	// İlişkiler
	Brand    Brand     `json:"-" gorm:"foreignKey:BrandID"`
	Mentions []Mention `json:"-" gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE"`
}

package models

import "time"

// Layout kartvizitin hangi görsel şablonla çizileceğini belirler.
// Sadece bir render ipucudur; vCard çıktısında hangi opsiyonel alanların
// okunacağını etkilemesi dışında anlamı yoktur.
type Layout struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const (
	LayoutNameClassic   = "classic"
	LayoutNameModern    = "modern"
	LayoutNameMinimal   = "minimal"
	LayoutNameCorporate = "corporate"
)

// Seed sırası sabittir, bu yüzden ID'ler de sabittir.
const (
	LayoutIDClassic   uint = 1
	LayoutIDModern    uint = 2
	LayoutIDMinimal   uint = 3
	LayoutIDCorporate uint = 4
)

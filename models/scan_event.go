// models/scan_event.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnknownLocation coğrafi konum çözülemediğinde şehir/ülke yerine yazılır.
const UnknownLocation = "Unknown"

// ScanEvent callback URL'sinin bir kez taranmasıdır. Yazıldıktan sonra değişmez.
// CardID'ye yabancı anahtar konmaz; silinen kartların event'leri denetim için kalır.
type ScanEvent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CardID        uuid.UUID `gorm:"type:uuid;not null;index:idx_scan_events_card_occurred,priority:1" json:"recordId"`
	SourceAddress string    `gorm:"type:varchar(64)" json:"sourceAddress"`
	ClientAgent   string    `gorm:"type:text" json:"clientAgent"`
	OccurredAt    time.Time `gorm:"not null;index:idx_scan_events_card_occurred,priority:2" json:"occurredAt"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `gorm:"type:varchar(128);not null" json:"city"`
	Country   string   `gorm:"type:varchar(128);not null" json:"country"`
}

func (ScanEvent) TableName() string { return "scan_events" }

func (e *ScanEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// LocationKey breakdown anahtarıdır: "{city}, {country}".
func (e ScanEvent) LocationKey() string {
	city, country := e.City, e.Country
	if city == "" {
		city = UnknownLocation
	}
	if country == "" {
		country = UnknownLocation
	}
	return city + ", " + country
}

// models/engagement_report.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EngagementReport önizleme sayfasının bildirdiği görüntüleme süresidir.
// Orijinal ScanEvent değiştirilmez; süre bu takip kaydında tutulur.
type EngagementReport struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CardID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"recordId"`
	ScanEventID *uuid.UUID `gorm:"type:uuid;index" json:"scanEventId,omitempty"`
	// Aynı sayfa görüntülemesi için ikinci bildirim yok sayılır (NULL'lar tekil sayılmaz).
	ViewID        *string   `gorm:"type:varchar(64);uniqueIndex" json:"viewId,omitempty"`
	Seconds       int       `gorm:"not null" json:"timeSpent"`
	SourceAddress string    `gorm:"type:varchar(64)" json:"-"`
	ReportedAt    time.Time `gorm:"not null;index" json:"reportedAt"`
}

func (EngagementReport) TableName() string { return "engagement_reports" }

func (r *EngagementReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

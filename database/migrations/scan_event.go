// database/migrations/scan_event.go
package migrations

import (
	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateScanEventsTables scan_events ve engagement_reports tablolarını oluşturur.
// card_id sütunlarına FK konmaz; silinen kartların event'leri yerinde kalır.
func MigrateScanEventsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating scan_events & engagement_reports tables...")
	if err := db.AutoMigrate(&models.ScanEvent{}, &models.EngagementReport{}); err != nil {
		configslog.Log.Error("Failed to migrate scan_events & engagement_reports tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Scan_events & engagement_reports tables migrated successfully")
	return nil
}

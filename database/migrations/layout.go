package migrations

import (
	"errors"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"gorm.io/gorm"
)

func MigrateLayoutsTable(db *gorm.DB) error {
	configslog.SLog.Info("Layout tablosu migrate ediliyor...")

	if err := db.AutoMigrate(&models.Layout{}); err != nil {
		errMsg := "Layout tablosu migrate edilemedi: " + err.Error()
		configslog.Log.Error(errMsg)
		return errors.New(errMsg)
	}

	configslog.SLog.Info("Layout tablosu migrate işlemi tamamlandı.")
	return nil
}

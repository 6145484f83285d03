package seeders

import (
	"errors"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedLayouts bilinen şablonları sabit kimlikleriyle oluşturur. Tekrar çalıştırılabilir.
func SeedLayouts(db *gorm.DB) error {
	layoutsToSeed := []models.Layout{
		{ID: models.LayoutIDClassic, Name: models.LayoutNameClassic, Description: "Klasik kartvizit görünümü"},
		{ID: models.LayoutIDModern, Name: models.LayoutNameModern, Description: "Renkli, modern görünüm"},
		{ID: models.LayoutIDMinimal, Name: models.LayoutNameMinimal, Description: "Sade görünüm; sosyal profiller ve not gösterilmez"},
		{ID: models.LayoutIDCorporate, Name: models.LayoutNameCorporate, Description: "Kurumsal görünüm"},
	}

	var createdCount int64 = 0
	var errorOccurred bool = false

	configslog.SLog.Info("Şablon seed işlemi başlıyor...")

	for _, layoutToSeed := range layoutsToSeed {
		var existing models.Layout
		result := db.Where("name = ?", layoutToSeed.Name).First(&existing)

		if result.Error == nil {
			configslog.SLog.Debugf("Şablon '%s' zaten mevcut, oluşturma atlanıyor.", layoutToSeed.Name)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Şablon kontrol edilirken veritabanı hatası",
				zap.String("layout_name", layoutToSeed.Name),
				zap.Error(result.Error),
			)
			errorOccurred = true
			continue
		}

		if err := db.Create(&layoutToSeed).Error; err != nil {
			configslog.Log.Error("Şablon oluşturulamadı",
				zap.String("layout_name", layoutToSeed.Name),
				zap.Error(err),
			)
			errorOccurred = true
			continue
		}

		configslog.SLog.Infof("Şablon '%s' oluşturuldu (ID: %d).", layoutToSeed.Name, layoutToSeed.ID)
		createdCount++
	}

	if createdCount > 0 {
		configslog.SLog.Infof("%d adet yeni şablon seed edildi.", createdCount)
	} else if !errorOccurred {
		configslog.SLog.Info("Tüm şablonlar zaten mevcut, yeni ekleme yapılmadı.")
	}

	if errorOccurred {
		return errors.New("şablonlar seed edilirken en az bir hata oluştu")
	}
	return nil
}

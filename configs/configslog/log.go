package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapılandırılmış (field tabanlı) loglayıcı, SLog ise printf tarzı sugared sürümüdür.
// InitLogger çağrılmadan önce ikisi de no-op'tur; testler loglamadan etkilenmez.
var (
	Log  = zap.NewNop()
	SLog = Log.Sugar()
)

// InitLogger APP_ENV değerine göre production (JSON) veya development loglayıcısını kurar.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// Loglayıcı kurulamazsa no-op ile devam etmek yerine süreci durdur.
		panic("zap logger oluşturulamadı: " + err.Error())
	}
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger tamponlanmış logları diske/stdout'a yazar.
func SyncLogger() {
	_ = Log.Sync()
}

// SetLogger testlerde gözlemlenebilir bir loglayıcı enjekte etmek için kullanılır.
func SetLogger(l *zap.Logger) {
	Log = l
	SLog = l.Sugar()
}

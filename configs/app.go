package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig uygulamanın çalışma zamanı ayarlarını taşır.
type AppConfig struct {
	Env     string
	Port    string
	BaseURL string // Scan callback URL'leri için mutlak servis adresi

	JWTSecret string

	GeoIPDBPath      string
	GeoLookupTimeout time.Duration
	GeoCacheTTL      time.Duration
	ScanLinkTimeout  time.Duration
	EngagementWindow time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	QRSize             int
	PlanMaxCards       int
	PhoneDefaultRegion string
}

var appConfig *AppConfig

// defaultJWTSecret sadece geliştirme ortamında kabul edilir.
const defaultJWTSecret = "change-me"

// setDefaults geliştirme ortamı için varsayılan değerleri tanımlar.
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("GEOIP_DB_PATH", "")
	v.SetDefault("GEO_LOOKUP_TIMEOUT", "500ms")
	v.SetDefault("GEO_CACHE_TTL", "24h")
	v.SetDefault("SCAN_LINK_TIMEOUT", "1s")
	v.SetDefault("ENGAGEMENT_WINDOW", "30m")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("QR_SIZE", 512)
	v.SetDefault("PLAN_MAX_CARDS", 0)
	v.SetDefault("PHONE_DEFAULT_REGION", "TR")
}

// LoadAppConfig .env dosyasını (varsa) ortam değişkenlerine yükler ve AppConfig'i oluşturur.
func LoadAppConfig() (*AppConfig, error) {
	_ = godotenv.Load() // .env olmaması hata değildir

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return buildAppConfig(v)
}

func buildAppConfig(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Env:                v.GetString("APP_ENV"),
		Port:               v.GetString("APP_PORT"),
		BaseURL:            strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		GeoIPDBPath:        v.GetString("GEOIP_DB_PATH"),
		GeoLookupTimeout:   v.GetDuration("GEO_LOOKUP_TIMEOUT"),
		GeoCacheTTL:        v.GetDuration("GEO_CACHE_TTL"),
		ScanLinkTimeout:    v.GetDuration("SCAN_LINK_TIMEOUT"),
		EngagementWindow:   v.GetDuration("ENGAGEMENT_WINDOW"),
		RedisAddress:       v.GetString("REDIS_ADDRESS"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		QRSize:             v.GetInt("QR_SIZE"),
		PlanMaxCards:       v.GetInt("PLAN_MAX_CARDS"),
		PhoneDefaultRegion: strings.ToUpper(v.GetString("PHONE_DEFAULT_REGION")),
	}

	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("APP_BASE_URL mutlak bir URL olmalı: %q", cfg.BaseURL)
	}
	if !cfg.IsDevelopment() && (strings.TrimSpace(cfg.JWTSecret) == "" || cfg.JWTSecret == defaultJWTSecret) {
		return nil, fmt.Errorf("JWT_SECRET tanımlanmalı (APP_ENV=%s)", cfg.Env)
	}
	if cfg.GeoLookupTimeout <= 0 || cfg.ScanLinkTimeout <= 0 {
		return nil, fmt.Errorf("GEO_LOOKUP_TIMEOUT ve SCAN_LINK_TIMEOUT pozitif olmalı")
	}
	if cfg.QRSize < 64 {
		cfg.QRSize = 64
	}
	return cfg, nil
}

// SetAppConfig yüklenen yapılandırmayı paket genelinde erişilebilir kılar.
func SetAppConfig(cfg *AppConfig) {
	appConfig = cfg
}

// GetAppConfig paket genelindeki yapılandırmayı döndürür.
func GetAppConfig() *AppConfig {
	return appConfig
}

// IsDevelopment geliştirme ortamında mıyız?
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

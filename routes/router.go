package routes

import (
	"kartvizit.link/configs"
	"kartvizit.link/middlewares"
	"kartvizit.link/pkg/geo"
	"kartvizit.link/services"
	"kartvizit.link/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Services handler'ların kullandığı servis örnekleridir. Testler sahtelerini verebilir.
type Services struct {
	Cards      services.ICardService
	Scans      services.IScanService
	Engagement services.IEngagementService
	Analytics  services.IAnalyticsService
	Linker     services.IScanLinkService
}

// NewServices uygulama yapılandırması ve veritabanı bağlantısıyla servisleri kurar.
// Tüm servisler tek bir CardService örneğini paylaşır.
func NewServices(resolver geo.Resolver) *Services {
	cfg := configs.GetAppConfig()
	cards := services.NewCardService()

	return &Services{
		Cards:      cards,
		Scans:      services.NewScanService(cards, resolver),
		Engagement: services.NewEngagementService(),
		Analytics:  services.NewAnalyticsService(cards),
		Linker:     services.NewScanLinkService(cfg.BaseURL, cfg.QRSize),
	}
}

// NewApp Fiber uygulamasını hata yöneticisi ve gömülü view motoruyla oluşturur.
func NewApp(svc *Services, reloadViews bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "kartvizit.link",
		ErrorHandler: middlewares.ErrorHandler,
		Views:        views.NewEngine(reloadViews),
	})
	SetupRoutes(app, svc)
	return app
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, svc *Services) {
	// --- Genel Middleware'ler ---
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// --- Rota Grupları ---
	registerScanRoutes(app, svc)      // /scan, /c, /public (anonim)
	registerAPIRoutes(app, svc)       // /api, /analytics (bearer)
	registerDashboardRoutes(app, svc) // /dashboard (bearer + yönetici)

	// En sonda, eşleşmeyen tüm rotaları yakalar.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kaynak bulunamadı"})
}

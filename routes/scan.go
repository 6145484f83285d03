package routes

import (
	publichandlers "kartvizit.link/handlers/public"
	scanhandlers "kartvizit.link/handlers/scan"

	"github.com/gofiber/fiber/v2"
)

// registerScanRoutes kimlik doğrulaması gerektirmeyen rotaları tanımlar. Bu uçlar
// basılı QR kodlarından gelen anonim istemcilere açıktır.
func registerScanRoutes(app *fiber.App, svc *Services) {
	scanHandler := scanhandlers.NewScanHandler(svc.Scans, svc.Engagement, svc.Linker)
	publicHandler := publichandlers.NewPublicCardHandler(svc.Cards, svc.Analytics)

	app.Get("/scan/:id", scanHandler.Scan)                    // GET /scan/{id} -> 302 /c/{id}
	app.Post("/scan/:id/time-spent", scanHandler.TimeSpent)   // POST /scan/{id}/time-spent
	app.Get("/c/:id", publicHandler.Preview)                  // GET /c/{id} (HTML)
	app.Get("/c/:id/vcard", publicHandler.VCard)              // GET /c/{id}/vcard
	app.Get("/public/analytics/:id", publicHandler.Analytics) // GET /public/analytics/{id}
}

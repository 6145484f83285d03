package routes

import (
	apihandlers "kartvizit.link/handlers/api"
	"kartvizit.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes kullanıcının kendi kartvizitleri ve analitiği için JSON rotalarını tanımlar.
func registerAPIRoutes(app *fiber.App, svc *Services) {
	cardHandler := apihandlers.NewCardHandler(svc.Cards, svc.Linker)
	analyticsHandler := apihandlers.NewAnalyticsHandler(svc.Analytics)

	apiGroup := app.Group("/api", middlewares.AuthMiddleware)
	apiGroup.Post("/cards", cardHandler.CreateCard)       // POST /api/cards
	apiGroup.Get("/cards", cardHandler.ListCards)         // GET /api/cards
	apiGroup.Get("/cards/:id", cardHandler.GetCard)       // GET /api/cards/{id}
	apiGroup.Put("/cards/:id", cardHandler.UpdateCard)    // PUT /api/cards/{id}
	apiGroup.Delete("/cards/:id", cardHandler.DeleteCard) // DELETE /api/cards/{id}
	apiGroup.Get("/cards/:id/vcard", cardHandler.VCard)   // GET /api/cards/{id}/vcard
	apiGroup.Get("/cards/:id/qr", cardHandler.ScanCode)   // GET /api/cards/{id}/qr

	analyticsGroup := app.Group("/analytics", middlewares.AuthMiddleware)
	// "/me" sabit yolu ":id"den önce kaydedilmeli.
	analyticsGroup.Get("/me", analyticsHandler.OwnerAnalytics)             // GET /analytics/me
	analyticsGroup.Get("/:id", analyticsHandler.CardAnalytics)             // GET /analytics/{id}
	analyticsGroup.Get("/:id/engagement", analyticsHandler.CardEngagement) // GET /analytics/{id}/engagement
}

package routes

import (
	handlers "kartvizit.link/handlers/dashboard"
	"kartvizit.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes /dashboard altındaki rotaları tanımlar.
// Sadece IsSystem=true olan kullanıcılar erişebilir.
func registerDashboardRoutes(app *fiber.App, svc *Services) {
	cardHandler := handlers.NewCardHandler(svc.Cards, svc.Analytics)

	dashboardGroup := app.Group("/dashboard")
	dashboardGroup.Use(
		middlewares.AuthMiddleware,  // 1. Geçerli token var mı?
		middlewares.RequireSystem(), // 2. Sistem yöneticisi mi?
	)

	// --- Kartvizit Yönetimi (Admin Görünümü) ---
	dashboardGroup.Get("/cards", cardHandler.ListCards)             // GET /dashboard/cards
	dashboardGroup.Delete("/cards/:id", cardHandler.DeleteCard)     // DELETE /dashboard/cards/{id}
	dashboardGroup.Get("/analytics/:id", cardHandler.CardAnalytics) // GET /dashboard/analytics/{id}
}

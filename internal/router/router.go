package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/VibeCodiac/UnTrash-Emergent/internal/handler"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/middleware"
	"github.com/VibeCodiac/UnTrash-Emergent/internal/repository"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Report  *handler.ReportHandler
	Area    *handler.AreaHandler
	Admin   *handler.AdminHandler
	User    *handler.UserHandler
	Ranking *handler.RankingHandler
	Heatmap *handler.HeatmapHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, users *repository.UserRepo, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// Rate limiters
	readLimit := middleware.NewReadRateLimiter().Handler()
	reportLimit := middleware.NewReportRateLimiter().Handler()
	collectLimit := middleware.NewCollectRateLimiter().Handler()
	areaLimit := middleware.NewAreaRateLimiter().Handler()
	statsLimit := middleware.NewStatsRateLimiter().Handler()
	adminLimit := middleware.NewAdminRateLimiter().Handler()

	auth := middleware.RequireUser(users)

	// API routes
	api := app.Group("/api")

	// Trash report routes. Middleware is listed after the handler per Fiber
	// v3's registration signature but runs before it.
	api.Get("/trash", h.Report.List, readLimit)
	api.Post("/trash", h.Report.Create, reportLimit, auth)
	api.Get("/trash/:reportId", h.Report.Get, readLimit)
	api.Post("/trash/:reportId/collect", h.Report.Collect, collectLimit, auth)

	// Area cleaning routes
	api.Get("/areas", h.Area.Active, readLimit)
	api.Post("/areas", h.Area.Create, areaLimit, auth)
	api.Get("/areas/:areaId", h.Area.Get, readLimit)

	// Map and stats routes
	api.Get("/heatmap", h.Heatmap.Get, readLimit)
	api.Get("/stats/weekly", h.Stats.Weekly, statsLimit)
	api.Get("/rankings/users", h.Ranking.Users, statsLimit)
	api.Get("/rankings/groups", h.Ranking.Groups, statsLimit)
	api.Get("/groups/:groupId", h.Ranking.Group, readLimit)

	// User routes
	api.Get("/users/me", h.User.Me, auth)
	api.Get("/users/:userId", h.User.Get, readLimit)
	api.Get("/notifications", h.User.Notifications, auth)

	// Admin routes
	admin := api.Group("/admin", adminLimit, auth, middleware.RequireAdmin())
	admin.Get("/pending-collections", h.Admin.PendingCollections)
	admin.Get("/pending-areas", h.Admin.PendingAreas)
	admin.Get("/pending-count", h.Admin.PendingCount)
	admin.Post("/collections/:reportId/approve", h.Admin.ApproveCollection)
	admin.Post("/collections/:reportId/reject", h.Admin.RejectCollection)
	admin.Post("/areas/:areaId/approve", h.Admin.ApproveArea)
	admin.Post("/areas/:areaId/reject", h.Admin.RejectArea)
	admin.Put("/trash/:reportId", h.Admin.UpdateReport)
	admin.Delete("/trash/:reportId", h.Admin.DeleteReport)
	admin.Delete("/areas/:areaId", h.Admin.DeleteArea)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Post("/users/:userId/ban", h.Admin.BanUser)
	admin.Post("/users/:userId/unban", h.Admin.UnbanUser)
	admin.Post("/users/:userId/reset-points", h.Admin.ResetPoints)
}

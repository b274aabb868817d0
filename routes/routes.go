package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"matchmate/catalog"
	controller "matchmate/controllers"
	"matchmate/middleware"
	"matchmate/notify"
	"matchmate/services"
	"matchmate/store"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Repo     store.Repository
	Matches  *services.MatchService
	Profiles *services.ProfileService
	Catalog  *catalog.Catalog
	Hub      *notify.Hub

	// RateLimitStorage backs the invitation limiter; nil keeps it in memory.
	RateLimitStorage fiber.Storage
	InviteLimit      int
	CORSOrigins      []string
}

func SetupAPIRoutes(app *fiber.App, d Deps) {
	profileController := controller.NewProfileController(d.Profiles)
	matchController := controller.NewMatchController(d.Matches)
	catalogController := controller.NewCatalogController(d.Catalog)

	api := app.Group("/api/v1", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	requirePlayer := middleware.RequirePlayer(d.Repo)

	// Profile routes
	profile := api.Group("/profiles")
	profile.Post("/", profileController.CreateProfile)
	profile.Get("/:id", profileController.GetProfile)
	profile.Put("/:id/availability", profileController.SetAvailability)
	profile.Get("/:id/matches", profileController.MyMatches)

	api.Get("/players/available", profileController.AvailablePlayers)

	// Match routes
	match := api.Group("/matches")
	match.Get("/", matchController.SearchMatches)
	match.Get("/:id", matchController.GetMatch)
	match.Get("/:id/candidates", matchController.Candidates)
	match.Post("/", requirePlayer, matchController.CreateMatch)
	match.Post("/:id/join", requirePlayer, matchController.JoinTeam)
	match.Post("/:id/leave", requirePlayer, matchController.LeaveMatch)
	match.Post("/:id/cancel", requirePlayer, matchController.CancelMatch)

	// Invitation routes, rate limited per inviter and match
	match.Post("/:id/invitations", requirePlayer,
		middleware.InviteRateLimiter(d.InviteLimit, d.RateLimitStorage),
		matchController.Invite)
	match.Post("/:id/invitations/accept", requirePlayer, matchController.AcceptInvitation)
	match.Post("/:id/invitations/reject", requirePlayer, matchController.RejectInvitation)

	// Catalog routes
	cat := api.Group("/catalog")
	cat.Get("/cities", catalogController.GetCities)
	cat.Get("/positions", catalogController.GetPositions)

	logrus.Info("API routes initialized successfully")
}

func SetupLiveRoutes(app *fiber.App, d Deps) {
	liveController := controller.NewLiveController(d.Repo, d.Hub)

	ws := app.Group("/ws", controller.UpgradeOnly)
	ws.Get("/matches/:id", websocket.New(liveController.HandleMatchFeed))
	ws.Get("/notifications", websocket.New(liveController.HandleNotifications))
}

func SetupRoutes(app *fiber.App, d Deps) {
	// Handler panics answer 500
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(middleware.DefaultCORSConfig(d.CORSOrigins)))

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	SetupAPIRoutes(app, d)
	SetupLiveRoutes(app, d)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}

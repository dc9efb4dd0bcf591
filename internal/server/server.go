package server

import (
	"log"

	"pdf-toolbox-bot/internal/bootstrap"
	"pdf-toolbox-bot/internal/config"
	"pdf-toolbox-bot/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Type",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(serverutils.SuccessResponse("PDF Toolbox Bot is running", fiber.Map{
			"mode": cfg.Bot.Mode,
		}))
	})

	if cfg.Bot.Mode == config.ModeWebhook {
		// Telegram checks the secret header inside the bot's handler.
		app.Post(cfg.Bot.WebhookPath, adaptor.HTTPHandler(container.Bot.WebhookHandler()))
	}

	api := app.Group("/api")
	container.AdminController.RegisterRoutes(api)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

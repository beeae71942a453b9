package server

import (
	"time"

	"wspace-be/internal/bootstrap"
	"wspace-be/internal/config"
	"wspace-be/internal/controller"
	"wspace-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const bodyLimit = 10 << 20

type Server struct {
	app       *fiber.App
	addr      string
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	app.Use(
		recover.New(),
		requestid.New(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.App.CorsAllowedOrigins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language, Authorization",
			AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
			ExposeHeaders:    "Content-Length, Content-Type, Retry-After",
		}),
		otelfiber.Middleware(),
	)

	api := app.Group("/api")
	for _, c := range controllers(container) {
		c.RegisterRoutes(api)
	}

	return &Server{app: app, addr: ":" + cfg.App.Port, container: container}
}

func controllers(c *bootstrap.Container) []controller.Controller {
	return []controller.Controller{
		c.HealthController,
		c.AuthController,
		c.UserController,
		c.SessionController,
		c.ChatController,
		c.NoteController,
		c.DocumentController,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "listening", map[string]interface{}{"addr": s.addr})
	return s.app.Listen(s.addr)
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

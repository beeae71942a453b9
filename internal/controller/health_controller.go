package controller

import (
	"context"
	"time"

	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthController struct {
	checks map[string]HealthCheck
}

func NewHealthController(checks map[string]HealthCheck) Controller {
	return &healthController{checks: checks}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Components: make(map[string]string, len(c.checks))}
	for name, check := range c.checks {
		if err := check(checkCtx); err != nil {
			res.Components[name] = "down: " + err.Error()
			res.Status = "degraded"
			continue
		}
		res.Components[name] = "up"
	}

	status := fiber.StatusOK
	if res.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	resp := serverutils.SuccessResponse("Health check", res)
	resp.Code = status
	resp.Success = status == fiber.StatusOK
	return ctx.Status(status).JSON(resp)
}

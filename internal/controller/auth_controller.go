package controller

import (
	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/serverutils"
	"wspace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	rateLimit fiber.Handler
}

// NewAuthController limits both endpoints per client IP with rateLimit.
func NewAuthController(service service.IAuthService, rateLimit fiber.Handler) IAuthController {
	return &authController{service: service, rateLimit: rateLimit}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth", c.rateLimit)
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login success", res))
}

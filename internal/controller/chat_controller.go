package controller

import (
	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/serverutils"
	"wspace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	auth        fiber.Handler
	rateLimit   fiber.Handler
}

func NewChatController(chatService service.IChatService, auth, rateLimit fiber.Handler) IChatController {
	return &chatController{
		chatService: chatService,
		auth:        auth,
		rateLimit:   rateLimit,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.auth, c.rateLimit, c.Send)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.SendChat(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

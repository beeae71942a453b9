package controller

import (
	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/serverutils"
	"wspace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	auth           fiber.Handler
}

func NewSessionController(sessionService service.ISessionService, auth fiber.Handler) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		auth:           auth,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions", c.auth)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Put(":id", c.Rename)
	h.Delete(":id", c.Delete)

	r.Get("/messages", c.auth, c.ListMessages)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := bindBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.sessionService.CreateSession(ctx.UserContext(), userId, &req, ctx.Get(fiber.HeaderAcceptLanguage))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.ListSessions(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Rename(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseId(ctx.Params("id"), "id")
	if err != nil {
		return err
	}

	var req dto.RenameSessionRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	if err := c.sessionService.RenameSession(ctx.UserContext(), userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename session", nil))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseId(ctx.Params("id"), "id")
	if err != nil {
		return err
	}

	if err := c.sessionService.DeleteSession(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) ListMessages(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := parseId(ctx.Query("sessionId"), "sessionId")
	if err != nil {
		return err
	}

	res, err := c.sessionService.ListMessages(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

package controller

import (
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Controller interface {
	RegisterRoutes(r fiber.Router)
}

// bindBody decodes the JSON body into req and validates it.
func bindBody(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.NewValidation("invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func parseId(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewValidation(field + " must be a valid id").WithDetails(map[string]string{field: "is invalid"})
	}
	return id, nil
}

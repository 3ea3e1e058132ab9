package serverutils

import (
	"errors"

	"ai-scribe-be/internal/service"
	"ai-scribe-be/pkg/inference"
	"ai-scribe-be/pkg/scribe/orchestrator"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses so that
// controllers can simply return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidActivitySelection):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, orchestrator.ErrAlreadyGenerating):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, orchestrator.ErrNoActiveModel):
			return ctx.Status(fiber.StatusPreconditionFailed).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, inference.ErrUnreachable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, inference.ErrTimeout):
			return ctx.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse(err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}

package controller

import (
	"ai-scribe-be/internal/dto"
	"ai-scribe-be/internal/pkg/serverutils"
	"ai-scribe-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ListModels(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
}

func NewGenerationController(generationService service.IGenerationService) IGenerationController {
	return &generationController{
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Post(":activityId/cancel", c.Cancel)
	h.Get(":activityId/status", c.Status)
	h.Get("models", c.ListModels)
	h.Get("health", c.Health)
}

func (c *generationController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StartGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Generation started", res))
}

func (c *generationController) Cancel(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	activityId, _ := uuid.Parse(ctx.Params("activityId"))

	res, err := c.generationService.Cancel(ctx.Context(), userId, activityId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Generation cancelled", res))
}

func (c *generationController) Status(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	activityId, _ := uuid.Parse(ctx.Params("activityId"))

	res, err := c.generationService.Status(ctx.Context(), userId, activityId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}

func (c *generationController) ListModels(ctx *fiber.Ctx) error {
	res, err := c.generationService.ListModels(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list models", res))
}

func (c *generationController) Health(ctx *fiber.Ctx) error {
	res, err := c.generationService.Health(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check inference health", res))
}

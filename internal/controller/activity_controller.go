package controller

import (
	"errors"

	"ai-scribe-be/internal/dto"
	"ai-scribe-be/internal/pkg/serverutils"
	"ai-scribe-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IActivityController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAllByClient(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetPersistedExchange(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	GetWorkspace(ctx *fiber.Ctx) error
	UpdateSampling(ctx *fiber.Ctx) error
}

type activityController struct {
	activityService service.IActivityService
}

func NewActivityController(activityService service.IActivityService) IActivityController {
	return &activityController{
		activityService: activityService,
	}
}

func (c *activityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/activity/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("workspace", c.GetWorkspace)
	h.Patch("workspace/sampling", c.UpdateSampling)
	h.Post("", c.Create)
	h.Get("by-client/:clientId", c.GetAllByClient)
	h.Get(":id", c.Show)
	h.Get(":id/record", c.GetPersistedExchange)
	h.Put(":id", c.Rename)
	h.Put(":id/select", c.Select)
	h.Delete(":id", c.Delete)
}

func (c *activityController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.activityService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create activity", res))
}

func (c *activityController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.activityService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Activity not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show activity", res))
}

func (c *activityController) GetAllByClient(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	clientId, _ := uuid.Parse(ctx.Params("clientId"))

	res, err := c.activityService.GetAllByClient(ctx.Context(), userId, clientId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get activities", res))
}

func (c *activityController) Rename(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.RenameActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.activityService.Rename(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Activity not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename activity", res))
}

func (c *activityController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.activityService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete activity", nil))
}

func (c *activityController) GetPersistedExchange(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.activityService.GetPersistedExchange(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "No persisted record")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get persisted record", res))
}

func (c *activityController) Select(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.activityService.Select(ctx.Context(), userId, id)
	if errors.Is(err, service.ErrInvalidActivitySelection) {
		// The fallback selection already took effect; return it with the
		// error so the UI can follow the workspace to where it moved.
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ApiResponse{
			Success: false,
			Message: err.Error(),
			Data:    res,
		})
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select activity", res))
}

func (c *activityController) GetWorkspace(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.activityService.GetWorkspace(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get workspace", res))
}

func (c *activityController) UpdateSampling(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.UpdateSamplingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.activityService.UpdateSampling(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update sampling", res))
}

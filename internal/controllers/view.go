package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	"github.com/asamarka-625/ApplicationSystem/internal/services"
	"github.com/asamarka-625/ApplicationSystem/pkg/api"
	"github.com/asamarka-625/ApplicationSystem/pkg/utils"
)

type ViewController struct {
	viewService services.ViewServiceInterface
	logger      *zap.Logger
}

func NewViewController(viewService services.ViewServiceInterface, logger *zap.Logger) *ViewController {
	return &ViewController{viewService: viewService, logger: logger}
}

func (c *ViewController) ListRequests(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	page, limit, offset := utils.ParsePagination(ctx)
	filter := repositories.ListFilter{
		Status:      ctx.QueryParam("status"),
		RequestType: ctx.QueryParam("request_type"),
		Limit:       uint64(limit),
		Offset:      offset,
	}
	if raw := ctx.QueryParam("department_id"); raw != "" {
		if id, err := utils.ParseUint64Param(raw); err == nil {
			filter.DepartmentID = id
		}
	}

	list, total, err := c.viewService.List(reqCtx, actor, filter)
	if err != nil {
		c.logger.Error("ошибка при получении списка заявок", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Заявки успешно получены", list, total, page, limit)
}

func (c *ViewController) ListPlanning(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	list, err := c.viewService.PlanningList(reqCtx, actor)
	if err != nil {
		c.logger.Error("ошибка при получении сводки планирования", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessList(ctx, "Сводка планирования получена", list, uint64(len(list)), 1, len(list))
}

func (c *ViewController) Detail(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	detail, err := c.viewService.Detail(reqCtx, actor, ctx.Param("registration_number"))
	if err != nil {
		c.logger.Error("ошибка при получении заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Заявка успешно получена", detail)
}

func (c *ViewController) Data(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	data, err := c.viewService.Data(reqCtx, actor, ctx.Param("registration_number"))
	if err != nil {
		c.logger.Error("ошибка при получении данных заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Данные заявки получены", data)
}

func (c *ViewController) Info(ctx echo.Context) error {
	return api.SuccessOne(ctx, http.StatusOK, "Словари получены",
		c.viewService.Info(ctx.Request().Context()))
}

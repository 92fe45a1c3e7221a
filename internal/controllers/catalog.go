package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/services"
	"github.com/asamarka-625/ApplicationSystem/pkg/api"
	"github.com/asamarka-625/ApplicationSystem/pkg/utils"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

func (c *CatalogController) SearchItems(ctx echo.Context) error {
	var limit uint64
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, _ = utils.ParseUint64Param(raw)
	}

	items, err := c.catalogService.SearchItems(ctx.Request().Context(), ctx.QueryParam("name"), limit)
	if err != nil {
		c.logger.Error("ошибка поиска по справочнику", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Справочник получен", items)
}

func (c *CatalogController) ListDepartments(ctx echo.Context) error {
	departments, err := c.catalogService.ListDepartments(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ошибка получения списка судов", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Список судов получен", departments)
}

func (c *CatalogController) ListOrganizations(ctx echo.Context) error {
	organizations, err := c.catalogService.ListOrganizations(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ошибка получения списка организаций", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Список организаций получен", organizations)
}

func (c *CatalogController) ListExecutors(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	executors, err := c.catalogService.ListExecutors(reqCtx, actor)
	if err != nil {
		c.logger.Error("ошибка получения списка исполнителей", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Список исполнителей получен", executors)
}

func (c *CatalogController) ListManagementDepartments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	departments, err := c.catalogService.ListManagementDepartments(reqCtx, actor)
	if err != nil {
		c.logger.Error("ошибка получения отделов управления", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusOK, "Отделы управления получены", departments)
}

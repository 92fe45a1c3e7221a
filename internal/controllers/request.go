package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/dto"
	"github.com/asamarka-625/ApplicationSystem/internal/services"
	"github.com/asamarka-625/ApplicationSystem/pkg/api"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
	"github.com/asamarka-625/ApplicationSystem/pkg/utils"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	attachService  services.AttachmentServiceInterface
	logger         *zap.Logger
}

func NewRequestController(
	requestService services.RequestServiceInterface,
	attachService services.AttachmentServiceInterface,
	logger *zap.Logger,
) *RequestController {
	return &RequestController{
		requestService: requestService,
		attachService:  attachService,
		logger:         logger,
	}
}

// bindBody декодирует и валидирует тело запроса.
func bindBody[T any](ctx echo.Context) (T, error) {
	var body T
	if err := ctx.Bind(&body); err != nil {
		return body, apperrors.NewValidationError("некорректное тело запроса")
	}
	if err := ctx.Validate(&body); err != nil {
		return body, apperrors.NewValidationError("%s", err.Error())
	}
	return body, nil
}

func (c *RequestController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.CreateRequestDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	regNumber, err := c.requestService.Create(reqCtx, actor, body)
	if err != nil {
		c.logger.Error("ошибка при создании заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne(ctx, http.StatusCreated, "Заявка успешно создана",
		map[string]string{"registration_number": regNumber})
}

func (c *RequestController) Edit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.CreateRequestDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.Edit(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при редактировании заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Заявка успешно изменена", nil)
}

func (c *RequestController) Approve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.Approve(reqCtx, actor, ctx.Param("registration_number")); err != nil {
		c.logger.Error("ошибка при утверждении заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Заявка утверждена", nil)
}

func (c *RequestController) Reject(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.RejectRequestDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.Reject(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при отклонении заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Заявка отклонена", nil)
}

func (c *RequestController) RedirectManagement(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.RedirectManagementDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.AssignManagementDepartment(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при направлении заявки в отдел", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Заявка направлена в отдел", nil)
}

func (c *RequestController) RedirectExecutor(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.RedirectExecutorDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.AssignExecutor(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при назначении исполнителя", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Исполнитель назначен", nil)
}

func (c *RequestController) RedirectOrganization(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.RedirectOrganizationDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.AssignOrganization(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при привлечении организации", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Организация привлечена", nil)
}

func (c *RequestController) Planning(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.PlanItemDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.PlanItem(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при планировании позиции", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Выполнение запланировано", nil)
}

func (c *RequestController) Execute(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	body, err := bindBody[dto.ExecuteRequestDTO](ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	if err := c.requestService.Execute(reqCtx, actor, ctx.Param("registration_number"), body); err != nil {
		c.logger.Error("ошибка при выполнении заявки", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Действие выполнено", nil)
}

func (c *RequestController) UploadAttachment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewValidationError("файл не передан"))
	}

	if err := c.attachService.Upload(reqCtx, actor, ctx.Param("registration_number"), file, ctx.FormValue("document_type")); err != nil {
		c.logger.Error("ошибка при загрузке вложения", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusCreated, "Вложение добавлено", nil)
}

func (c *RequestController) DownloadAttachment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	documentID, err := utils.ParseUint64Param(ctx.Param("document_id"))
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewValidationError("некорректный идентификатор документа"))
	}

	reader, doc, err := c.attachService.Download(reqCtx, actor, ctx.Param("registration_number"), documentID)
	if err != nil {
		c.logger.Error("ошибка при выдаче вложения", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	defer reader.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return ctx.Stream(http.StatusOK, "application/octet-stream", reader)
}

func (c *RequestController) DeleteAttachment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actor, err := utils.GetActorFromCtx(reqCtx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	documentID, err := utils.ParseUint64Param(ctx.Param("document_id"))
	if err != nil {
		return api.ErrorResponse(ctx, apperrors.NewValidationError("некорректный идентификатор документа"))
	}

	if err := c.requestService.DeleteAttachment(reqCtx, actor, ctx.Param("registration_number"), documentID); err != nil {
		c.logger.Error("ошибка при удалении вложения", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}
	return api.SuccessOne[any](ctx, http.StatusOK, "Вложение удалено", nil)
}

package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/authz"
	"github.com/asamarka-625/ApplicationSystem/internal/dto"
	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	"github.com/asamarka-625/ApplicationSystem/internal/workflow"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

type ViewServiceInterface interface {
	List(ctx context.Context, actor entities.Actor, filter repositories.ListFilter) ([]dto.RequestListRowDTO, uint64, error)
	PlanningList(ctx context.Context, actor entities.Actor) ([]dto.PlanningRowDTO, error)
	Detail(ctx context.Context, actor entities.Actor, regNumber string) (*dto.RequestDetailDTO, error)
	Data(ctx context.Context, actor entities.Actor, regNumber string) (*dto.RequestDataDTO, error)
	Info(ctx context.Context) *dto.InfoDTO
}

// ViewService собирает ответы на чтение. Права и фактический статус
// пересчитываются на каждый вызов и никогда не кэшируются: просрочка
// зависит от текущего времени.
type ViewService struct {
	requestRepo repositories.RequestRepositoryInterface
	itemRepo    repositories.RequestItemRepositoryInterface
	historyRepo repositories.RequestHistoryRepositoryInterface
	actorRepo   repositories.ActorRepositoryInterface
	attachRepo  repositories.AttachmentRepositoryInterface
	logger      *zap.Logger
}

func NewViewService(
	requestRepo repositories.RequestRepositoryInterface,
	itemRepo repositories.RequestItemRepositoryInterface,
	historyRepo repositories.RequestHistoryRepositoryInterface,
	actorRepo repositories.ActorRepositoryInterface,
	attachRepo repositories.AttachmentRepositoryInterface,
	logger *zap.Logger,
) ViewServiceInterface {
	return &ViewService{
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		actorRepo:   actorRepo,
		attachRepo:  attachRepo,
		logger:      logger,
	}
}

func statusEnum(s entities.RequestStatus) dto.EnumDTO {
	return dto.EnumDTO{Name: string(s), Value: s.Label()}
}

func typeEnum(t entities.RequestType) dto.EnumDTO {
	return dto.EnumDTO{Name: string(t), Value: t.Label()}
}

func itemStatusEnum(s entities.RequestItemStatus) dto.EnumDTO {
	return dto.EnumDTO{Name: string(s), Value: s.Label()}
}

func (s *ViewService) List(ctx context.Context, actor entities.Actor, filter repositories.ListFilter) ([]dto.RequestListRowDTO, uint64, error) {
	rows, total, err := s.requestRepo.List(ctx, actor, filter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	result := make([]dto.RequestListRowDTO, 0, len(rows))
	for _, row := range rows {
		out := dto.RequestListRowDTO{
			RegistrationNumber:      row.RegistrationNumber,
			HumanRegistrationNumber: row.HumanRegistrationNumber,
			RequestType:             typeEnum(row.RequestType),
			Status:                  statusEnum(row.Status),
			IsEmergency:             row.IsEmergency,
			DepartmentName:          row.DepartmentName,
			CreatedAt:               row.CreatedAt,
			Rights:                  authz.Calculate(actor.Role, row.Status),
		}

		if workflow.IsOverdueByDeadline(actor.Role, row.Status, row.NearestDeadline, now) {
			out.ActualStatus = workflow.ActualStatusOverdue
		}

		result = append(result, out)
	}
	return result, total, nil
}

func (s *ViewService) PlanningList(ctx context.Context, actor entities.Actor) ([]dto.PlanningRowDTO, error) {
	if !actor.Is(entities.RoleManagement, entities.RoleManagementDepartment,
		entities.RoleExecutor, entities.RoleExecutorOrganization) {
		return nil, apperrors.NewForbiddenError("сводка планирования доступна исполнительной ветке")
	}

	rows, err := s.itemRepo.PlanningList(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	names := make(map[uint64]string)
	result := make([]dto.PlanningRowDTO, 0, len(rows))
	for _, row := range rows {
		out := dto.PlanningRowDTO{
			RegistrationNumber: row.RegistrationNumber,
			ItemID:             row.ItemID,
			ItemName:           row.ItemName,
			Count:              row.Count,
			Status:             itemStatusEnum(row.Status),
			DeadlineExecutor:   row.DeadlineExecutor,
			DeadlinePlanning:   row.DeadlinePlanning,
			Overdue: workflow.IsOverdue(actor.Role, row.RequestStatus,
				[]entities.RequestItem{row.RequestItem}, now),
		}
		if row.ExecutorID != nil {
			id := *row.ExecutorID
			if _, ok := names[id]; !ok {
				name, err := s.actorRepo.ProfileUserName(ctx, entities.RoleExecutor, id)
				if err != nil {
					name = ""
				}
				names[id] = name
			}
			out.ExecutorName = names[id]
		}
		result = append(result, out)
	}
	return result, nil
}

// checkViewScope проверяет, что заявка вообще видна актору: роли
// исполнительной ветки видят только свои заявки и позиции.
func checkViewScope(actor entities.Actor, req *entities.Request, items []entities.RequestItem) error {
	switch actor.Role {
	case entities.RoleSecretary:
		if req.SecretaryID != actor.ProfileID {
			return apperrors.NewNotFoundError("заявка не найдена")
		}
	case entities.RoleJudge:
		if req.JudgeID != actor.ProfileID {
			return apperrors.NewNotFoundError("заявка не найдена")
		}
	case entities.RoleManagementDepartment:
		if req.ManagementDepartmentID == nil || *req.ManagementDepartmentID != actor.ProfileID {
			return apperrors.NewNotFoundError("заявка не найдена")
		}
	case entities.RoleExecutor:
		for _, it := range items {
			if it.ExecutorID != nil && *it.ExecutorID == actor.ProfileID {
				return nil
			}
		}
		return apperrors.NewNotFoundError("заявка не найдена")
	case entities.RoleExecutorOrganization:
		for _, it := range items {
			if it.ExecutorOrganizationID != nil && *it.ExecutorOrganizationID == actor.ProfileID {
				return nil
			}
		}
		return apperrors.NewNotFoundError("заявка не найдена")
	}
	return nil
}

func (s *ViewService) Detail(ctx context.Context, actor entities.Actor, regNumber string) (*dto.RequestDetailDTO, error) {
	row, err := s.requestRepo.Detail(ctx, regNumber)
	if err != nil {
		return nil, err
	}

	rights := authz.Calculate(actor.Role, row.Status)
	if !rights.View {
		return nil, apperrors.NewNotFoundError("заявка не найдена")
	}

	items, err := s.itemRepo.ListByRequest(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	if err := checkViewScope(actor, &row.Request, items); err != nil {
		return nil, err
	}

	out := &dto.RequestDetailDTO{
		RegistrationNumber:      row.RegistrationNumber,
		HumanRegistrationNumber: row.HumanRegistrationNumber,
		RequestType:             typeEnum(row.RequestType),
		Status:                  statusEnum(row.Status),
		IsEmergency:             row.IsEmergency,
		Description:             row.Description,
		DepartmentName:          row.DepartmentName,
		SecretaryName:           row.SecretaryName,
		JudgeName:               row.JudgeName,
		ManagementName:          row.ManagementName,
		ManagementDeptName:      row.ManagementDeptName,
		CreatedAt:               row.CreatedAt,
		UpdatedAt:               row.UpdatedAt,
		CompletedAt:             row.CompletedAt,
		Items:                   make([]dto.RequestItemDTO, 0, len(items)),
		Rights:                  rights,
	}
	if workflow.IsOverdue(actor.Role, row.Status, items, time.Now()) {
		out.ActualStatus = workflow.ActualStatusOverdue
	}

	// Имена исполнителей резолвятся с памяткой: в заявке они
	// обычно повторяются.
	names := make(map[uint64]string)
	executorName := func(id uint64) string {
		if name, ok := names[id]; ok {
			return name
		}
		name, err := s.actorRepo.ProfileUserName(ctx, entities.RoleExecutor, id)
		if err != nil {
			s.logger.Warn("не удалось получить имя исполнителя", zap.Uint64("executorId", id), zap.Error(err))
			name = ""
		}
		names[id] = name
		return name
	}

	for _, it := range items {
		itemDTO := dto.RequestItemDTO{
			ItemID:                  it.ItemID,
			Name:                    it.ItemName,
			Count:                   it.Count,
			Status:                  itemStatusEnum(it.Status),
			DeadlineExecutor:        it.DeadlineExecutor,
			DeadlineOrganization:    it.DeadlineOrganization,
			DeadlinePlanning:        it.DeadlinePlanning,
			DescriptionExecutor:     it.DescriptionExecutor,
			DescriptionOrganization: it.DescriptionOrganization,
			DescriptionCompleted:    it.DescriptionCompleted,
		}
		if it.ExecutorID != nil {
			itemDTO.ExecutorName = executorName(*it.ExecutorID)
		}
		if it.ExecutorOrganizationID != nil {
			name, err := s.actorRepo.ProfileUserName(ctx, entities.RoleExecutorOrganization, *it.ExecutorOrganizationID)
			if err == nil {
				itemDTO.OrganizationName = name
			}
		}
		out.Items = append(out.Items, itemDTO)
	}

	attachments, err := s.attachRepo.ListByRequestID(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	out.Attachments = make([]dto.AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		out.Attachments = append(out.Attachments, dto.AttachmentDTO{
			FileName:     a.FileName,
			DocumentType: a.DocumentType,
			Size:         a.Size,
		})
	}

	history, err := s.historyRepo.FindByRequestID(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	out.History = make([]dto.HistoryEntryDTO, 0, len(history))
	for _, h := range history {
		out.History = append(out.History, dto.HistoryEntryDTO{
			CreatedAt:   h.CreatedAt,
			Action:      dto.EnumDTO{Name: string(h.Action), Value: h.Action.Label()},
			Description: dto.RenderHistory(h.Action, h.Payload),
			User:        h.UserName,
		})
	}

	return out, nil
}

// Data возвращает редактируемый снимок заявки для формы изменения.
func (s *ViewService) Data(ctx context.Context, actor entities.Actor, regNumber string) (*dto.RequestDataDTO, error) {
	req, err := s.requestRepo.FindByRegNumber(ctx, regNumber)
	if err != nil {
		return nil, err
	}
	if !authz.Calculate(actor.Role, req.Status).Edit {
		return nil, apperrors.NewForbiddenError("заявка в статусе %q не редактируется", req.Status.Label())
	}
	if err := checkOwnership(actor, req); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.RequestDataDTO{
		RegistrationNumber: req.RegistrationNumber,
		RequestType:        string(req.RequestType),
		Description:        req.Description,
		IsEmergency:        req.IsEmergency,
		Items:              make([]dto.ItemCountDTO, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.ItemCountDTO{ItemID: it.ItemID, Count: it.Count})
	}
	return out, nil
}

func (s *ViewService) Info(_ context.Context) *dto.InfoDTO {
	out := &dto.InfoDTO{}
	for _, st := range []entities.RequestStatus{
		entities.StatusRegistered, entities.StatusConfirmed, entities.StatusInProgress,
		entities.StatusPartiallyFulfilled, entities.StatusPlanned, entities.StatusCompleted,
		entities.StatusEndingCompleted, entities.StatusFinished, entities.StatusCancelled,
	} {
		out.Statuses = append(out.Statuses, statusEnum(st))
	}
	for _, st := range []entities.RequestItemStatus{
		entities.ItemRegistered, entities.ItemInProgress, entities.ItemPlanned,
		entities.ItemCompleted, entities.ItemCancelled,
	} {
		out.ItemStatuses = append(out.ItemStatuses, itemStatusEnum(st))
	}
	for _, t := range []entities.RequestType{entities.TypeMaterial, entities.TypeTechnical} {
		out.RequestTypes = append(out.RequestTypes, typeEnum(t))
	}
	for _, r := range []entities.Role{
		entities.RoleSecretary, entities.RoleJudge, entities.RoleManagement,
		entities.RoleManagementDepartment, entities.RoleExecutor, entities.RoleExecutorOrganization,
	} {
		out.Roles = append(out.Roles, dto.EnumDTO{Name: string(r), Value: r.Label()})
	}
	return out
}

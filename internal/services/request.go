package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/authz"
	"github.com/asamarka-625/ApplicationSystem/internal/dto"
	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	"github.com/asamarka-625/ApplicationSystem/internal/workflow"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
	"github.com/asamarka-625/ApplicationSystem/pkg/filestorage"
)

type RequestServiceInterface interface {
	Create(ctx context.Context, actor entities.Actor, data dto.CreateRequestDTO) (string, error)
	Edit(ctx context.Context, actor entities.Actor, regNumber string, data dto.CreateRequestDTO) error
	Approve(ctx context.Context, actor entities.Actor, regNumber string) error
	Reject(ctx context.Context, actor entities.Actor, regNumber string, data dto.RejectRequestDTO) error
	AssignManagementDepartment(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectManagementDTO) error
	AssignExecutor(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectExecutorDTO) error
	AssignOrganization(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectOrganizationDTO) error
	PlanItem(ctx context.Context, actor entities.Actor, regNumber string, data dto.PlanItemDTO) error
	Execute(ctx context.Context, actor entities.Actor, regNumber string, data dto.ExecuteRequestDTO) error
	DeleteAttachment(ctx context.Context, actor entities.Actor, regNumber string, documentID uint64) error
}

// RequestService - движок жизненного цикла заявки. Единственное место,
// которому разрешено менять состояние заявки и ее позиций. Каждая
// мутация выполняется в одной транзакции: перечитывание с блокировкой,
// проверка предусловий, изменение, одна запись в журнал.
type RequestService struct {
	txManager      repositories.TxManagerInterface
	requestRepo    repositories.RequestRepositoryInterface
	itemRepo       repositories.RequestItemRepositoryInterface
	historyRepo    repositories.RequestHistoryRepositoryInterface
	actorRepo      repositories.ActorRepositoryInterface
	catalogRepo    repositories.CatalogRepositoryInterface
	attachmentRepo repositories.AttachmentRepositoryInterface
	fileStorage    filestorage.FileStorageInterface
	docGen         DocumentGeneratorInterface
	signatureSvc   SignatureServiceInterface
	logger         *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	itemRepo repositories.RequestItemRepositoryInterface,
	historyRepo repositories.RequestHistoryRepositoryInterface,
	actorRepo repositories.ActorRepositoryInterface,
	catalogRepo repositories.CatalogRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	docGen DocumentGeneratorInterface,
	signatureSvc SignatureServiceInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:      txManager,
		requestRepo:    requestRepo,
		itemRepo:       itemRepo,
		historyRepo:    historyRepo,
		actorRepo:      actorRepo,
		catalogRepo:    catalogRepo,
		attachmentRepo: attachmentRepo,
		fileStorage:    fileStorage,
		docGen:         docGen,
		signatureSvc:   signatureSvc,
		logger:         logger,
	}
}

func (s *RequestService) writeHistory(ctx context.Context, tx pgx.Tx, requestID, userID uint64, action entities.RequestAction, payload dto.HistoryPayload) error {
	return s.historyRepo.CreateInTx(ctx, tx, &entities.RequestHistory{
		RequestID: requestID,
		UserID:    userID,
		Action:    action,
		Payload:   payload.Marshal(),
	})
}

// checkOwnership не дает секретарю и судье трогать чужие заявки.
// Остальные роли ограничены таблицей прав и скоупом выборок.
func checkOwnership(actor entities.Actor, req *entities.Request) error {
	switch actor.Role {
	case entities.RoleSecretary:
		if req.SecretaryID != actor.ProfileID {
			return apperrors.NewForbiddenError("заявка принадлежит другому секретарю")
		}
	case entities.RoleJudge:
		if req.JudgeID != actor.ProfileID {
			return apperrors.NewForbiddenError("заявка принадлежит другому судье")
		}
	case entities.RoleManagementDepartment:
		if req.ManagementDepartmentID == nil || *req.ManagementDepartmentID != actor.ProfileID {
			return apperrors.NewForbiddenError("заявка направлена в другой отдел")
		}
	}
	return nil
}

// applyAggregate пересчитывает общий статус заявки после изменения
// позиции. Статусы вне workflow.Applicable не трогаются никогда.
func (s *RequestService) applyAggregate(ctx context.Context, tx pgx.Tx, req *entities.Request) error {
	if !workflow.Applicable(req.Status) {
		return nil
	}

	statuses, err := s.itemRepo.StatusesInTx(ctx, tx, req.ID)
	if err != nil {
		return err
	}

	next := workflow.Aggregate(statuses)
	if next == req.Status {
		return nil
	}

	if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, next); err != nil {
		return err
	}
	if next == entities.StatusCompleted {
		if err := s.requestRepo.SetCompletedAtInTx(ctx, tx, req.ID, time.Now()); err != nil {
			return err
		}
	}
	req.Status = next
	return nil
}

// validateContent проверяет согласованность типа и содержимого:
// материальная заявка перечисляет предметы без описания и не бывает
// аварийной, заявка на услуги обязана иметь описание.
func validateContent(data dto.CreateRequestDTO) error {
	switch entities.RequestType(data.RequestType) {
	case entities.TypeMaterial:
		if data.Description != "" {
			return apperrors.NewValidationError("материальная заявка не содержит описания")
		}
		if data.IsEmergency {
			return apperrors.NewValidationError("аварийной может быть только заявка на услуги")
		}
	case entities.TypeTechnical:
		if data.Description == "" {
			return apperrors.NewValidationError("заявка на услуги должна содержать описание")
		}
	default:
		return apperrors.NewValidationError("неизвестный тип заявки %q", data.RequestType)
	}
	if len(data.Items) == 0 {
		return apperrors.NewValidationError("заявка должна содержать хотя бы одну позицию")
	}
	return nil
}

// formItems переводит состав заявки из DTO в позиции для печатной
// формы, попутно проверяя существование в справочнике.
func (s *RequestService) formItems(ctx context.Context, items []dto.ItemCountDTO) ([]entities.RequestItem, error) {
	result := make([]entities.RequestItem, 0, len(items))
	for _, it := range items {
		exists, err := s.catalogRepo.ItemExists(ctx, it.ItemID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewValidationError("позиция справочника %d не существует", it.ItemID)
		}
		name, err := s.catalogRepo.ItemName(ctx, it.ItemID)
		if err != nil {
			return nil, err
		}
		result = append(result, entities.RequestItem{ItemID: it.ItemID, ItemName: name, Count: it.Count})
	}
	return result, nil
}

// renderForm генерирует печатную форму и кладет файл в хранилище.
// Вызывается строго до транзакции.
func (s *RequestService) renderForm(ctx context.Context, req entities.Request, items []entities.RequestItem, fileName string) (*entities.RequestDocument, error) {
	document, err := s.docGen.GenerateRequestForm(ctx, req, items)
	if err != nil {
		s.logger.Error("не удалось сгенерировать печатную форму",
			zap.String("registrationNumber", req.RegistrationNumber), zap.Error(err))
		return nil, apperrors.NewExternalError("сервис генерации документов недоступен", err)
	}
	filePath, err := s.fileStorage.SaveBytes(fileName, document)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения печатной формы: %w", err)
	}
	return &entities.RequestDocument{
		DocumentType: "GENERATED",
		FilePath:     filePath,
		FileName:     fileName,
		Size:         int64(len(document)),
	}, nil
}

func (s *RequestService) Create(ctx context.Context, actor entities.Actor, data dto.CreateRequestDTO) (string, error) {
	if !actor.Is(entities.RoleSecretary) {
		return "", apperrors.NewForbiddenError("создавать заявки может только секретарь")
	}
	if err := validateContent(data); err != nil {
		return "", err
	}

	secretary, err := s.actorRepo.FindSecretary(ctx, actor.ProfileID)
	if err != nil {
		return "", err
	}
	department, err := s.catalogRepo.FindDepartment(ctx, secretary.DepartmentID)
	if err != nil {
		return "", err
	}

	items, err := s.formItems(ctx, data.Items)
	if err != nil {
		return "", err
	}

	regNumber := uuid.New().String()

	form, err := s.renderForm(ctx, entities.Request{
		RegistrationNumber: regNumber,
		Description:        data.Description,
		RequestType:        entities.RequestType(data.RequestType),
		IsEmergency:        data.IsEmergency,
	}, items, fmt.Sprintf("заявка-%s.txt", regNumber))
	if err != nil {
		return "", err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req := &entities.Request{
			RegistrationNumber: regNumber,
			Description:        data.Description,
			RequestType:        entities.RequestType(data.RequestType),
			Status:             entities.StatusRegistered,
			IsEmergency:        data.IsEmergency,
			SecretaryID:        secretary.ID,
			JudgeID:            secretary.JudgeID,
			DepartmentID:       secretary.DepartmentID,
		}

		id, err := s.requestRepo.CreateInTx(ctx, tx, req)
		if err != nil {
			return err
		}

		humanNumber := fmt.Sprintf("%d-%d/%d", department.Code, id, time.Now().Year())
		if err := s.requestRepo.SetHumanNumberInTx(ctx, tx, id, humanNumber); err != nil {
			return err
		}

		for _, it := range data.Items {
			if err := s.itemRepo.InsertInTx(ctx, tx, id, it.ItemID, it.Count); err != nil {
				return err
			}
		}

		form.RequestID = id
		if _, err := s.attachmentRepo.CreateInTx(ctx, tx, form); err != nil {
			return err
		}

		return s.writeHistory(ctx, tx, id, actor.UserID, entities.ActionRegistered, dto.HistoryPayload{})
	})
	if err != nil {
		s.logger.Error("не удалось создать заявку", zap.Error(err))
		return "", err
	}

	s.logger.Info("заявка создана",
		zap.String("registrationNumber", regNumber),
		zap.Uint64("userId", actor.UserID))
	return regNumber, nil
}

// Edit перерабатывает состав заявки и перегенерирует неподписанную
// печатную форму. Старый файл формы удаляется после коммита.
func (s *RequestService) Edit(ctx context.Context, actor entities.Actor, regNumber string, data dto.CreateRequestDTO) error {
	if err := validateContent(data); err != nil {
		return err
	}

	existing, err := s.requestRepo.FindByRegNumber(ctx, regNumber)
	if err != nil {
		return err
	}
	items, err := s.formItems(ctx, data.Items)
	if err != nil {
		return err
	}
	names := make(map[uint64]string, len(items))
	for _, it := range items {
		names[it.ItemID] = it.ItemName
	}

	newType := entities.RequestType(data.RequestType)
	form, err := s.renderForm(ctx, entities.Request{
		RegistrationNumber:      regNumber,
		HumanRegistrationNumber: existing.HumanRegistrationNumber,
		Description:             data.Description,
		RequestType:             newType,
		IsEmergency:             data.IsEmergency,
	}, items, fmt.Sprintf("заявка-%s.txt", existing.HumanRegistrationNumber))
	if err != nil {
		return err
	}

	var staleFiles []string
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Edit {
			return apperrors.NewForbiddenError("редактирование заявки в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		payload := dto.HistoryPayload{}
		if newType != req.RequestType {
			payload.TypeFrom = req.RequestType.Label()
			payload.TypeTo = newType.Label()
		}
		if data.Description != req.Description {
			payload.DescriptionTo = data.Description
		}

		current, err := s.itemRepo.ListByRequestInTx(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		currentByID := make(map[uint64]entities.RequestItem, len(current))
		for _, it := range current {
			currentByID[it.ItemID] = it
		}
		wantedByID := make(map[uint64]dto.ItemCountDTO, len(data.Items))
		for _, it := range data.Items {
			wantedByID[it.ItemID] = it
		}

		for itemID, wanted := range wantedByID {
			stored, ok := currentByID[itemID]
			if !ok {
				if err := s.itemRepo.InsertInTx(ctx, tx, req.ID, itemID, wanted.Count); err != nil {
					return err
				}
				payload.AddedItems = append(payload.AddedItems, names[itemID])
				continue
			}
			if stored.Count != wanted.Count {
				if err := s.itemRepo.UpdateCountInTx(ctx, tx, req.ID, itemID, wanted.Count); err != nil {
					return err
				}
				payload.UpdatedItems = append(payload.UpdatedItems,
					fmt.Sprintf("%s: %d -> %d", stored.ItemName, stored.Count, wanted.Count))
			}
		}
		for itemID, stored := range currentByID {
			if _, ok := wantedByID[itemID]; ok {
				continue
			}
			if err := s.itemRepo.DeleteInTx(ctx, tx, req.ID, itemID); err != nil {
				return err
			}
			payload.RemovedItems = append(payload.RemovedItems, stored.ItemName)
		}

		if err := s.requestRepo.UpdateContentInTx(ctx, tx, req.ID, newType, data.Description, data.IsEmergency); err != nil {
			return err
		}

		staleFiles, err = s.attachmentRepo.DeleteByTypeInTx(ctx, tx, req.ID, "GENERATED")
		if err != nil {
			return err
		}
		form.RequestID = req.ID
		if _, err := s.attachmentRepo.CreateInTx(ctx, tx, form); err != nil {
			return err
		}

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionUpdate, payload)
	})
	if err != nil {
		return err
	}

	// Старые формы удаляются только после коммита.
	for _, path := range staleFiles {
		if err := s.fileStorage.Delete(path); err != nil {
			s.logger.Warn("не удалось удалить устаревшую печатную форму",
				zap.String("filePath", path), zap.Error(err))
		}
	}
	return nil
}

// Approve утверждает заявку судьей. Печатная форма и подпись готовятся
// до транзакции: внутри транзакции внешних вызовов не бывает.
// Подписанная форма сохраняется отдельным документом.
func (s *RequestService) Approve(ctx context.Context, actor entities.Actor, regNumber string) error {
	req, err := s.requestRepo.FindByRegNumber(ctx, regNumber)
	if err != nil {
		return err
	}
	items, err := s.itemRepo.ListByRequest(ctx, req.ID)
	if err != nil {
		return err
	}
	judgeName, err := s.actorRepo.ProfileUserName(ctx, entities.RoleJudge, req.JudgeID)
	if err != nil {
		return err
	}

	document, err := s.docGen.GenerateRequestForm(ctx, *req, items)
	if err != nil {
		s.logger.Error("не удалось сгенерировать печатную форму",
			zap.String("registrationNumber", regNumber), zap.Error(err))
		return apperrors.NewExternalError("сервис генерации документов недоступен", err)
	}
	signed, err := s.signatureSvc.ApplySignatureOverlay(ctx, document, judgeName)
	if err != nil {
		s.logger.Error("не удалось подписать печатную форму",
			zap.String("registrationNumber", regNumber), zap.Error(err))
		return apperrors.NewExternalError("сервис подписания недоступен", err)
	}
	fileName := fmt.Sprintf("заявка-%s-подписанная.txt", req.HumanRegistrationNumber)
	filePath, err := s.fileStorage.SaveBytes(fileName, signed)
	if err != nil {
		return fmt.Errorf("ошибка сохранения подписанной формы: %w", err)
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Approve {
			return apperrors.NewForbiddenError("утверждение заявки в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusConfirmed); err != nil {
			return err
		}
		if _, err := s.attachmentRepo.CreateInTx(ctx, tx, &entities.RequestDocument{
			RequestID:    req.ID,
			DocumentType: "SIGNED",
			FilePath:     filePath,
			FileName:     fileName,
			Size:         int64(len(signed)),
		}); err != nil {
			return err
		}

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionConfirmed, dto.HistoryPayload{})
	})
}

func (s *RequestService) Reject(ctx context.Context, actor entities.Actor, regNumber string, data dto.RejectRequestDTO) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		rights := authz.Calculate(actor.Role, req.Status)
		if !rights.RejectBefore && !rights.RejectAfter {
			return apperrors.NewForbiddenError("отклонение заявки в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusCancelled); err != nil {
			return err
		}
		if err := s.itemRepo.CancelOpenInTx(ctx, tx, req.ID); err != nil {
			return err
		}

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionCancelled,
			dto.HistoryPayload{Comment: data.Comment.String})
	})
}

func (s *RequestService) AssignManagementDepartment(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectManagementDTO) error {
	officer, err := s.actorRepo.FindManagementDepartment(ctx, data.OfficerID)
	if err != nil {
		return err
	}
	officerName, err := s.actorRepo.ProfileUserName(ctx, entities.RoleManagementDepartment, officer.ID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).RedirectManagementDepartment {
			return apperrors.NewForbiddenError("направление в отдел в статусе %q недоступно", req.Status.Label())
		}

		if err := s.requestRepo.AssignManagementInTx(ctx, tx, req.ID, actor.ProfileID, officer.ID); err != nil {
			return err
		}
		if req.Status == entities.StatusConfirmed {
			if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusInProgress); err != nil {
				return err
			}
		}

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionAppointed, dto.HistoryPayload{
			AssigneeName: officerName,
			Comment:      data.Note.String,
		})
	})
}

func (s *RequestService) AssignExecutor(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectExecutorDTO) error {
	executor, err := s.actorRepo.FindExecutor(ctx, data.ExecutorID)
	if err != nil {
		return err
	}
	if actor.Is(entities.RoleManagementDepartment) && executor.ManagementDepartmentID != actor.ProfileID {
		return apperrors.NewForbiddenError("исполнитель относится к другому отделу")
	}
	executorName, err := s.actorRepo.ProfileUserName(ctx, entities.RoleExecutor, executor.ID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).RedirectExecutor {
			return apperrors.NewForbiddenError("назначение исполнителя в статусе %q недоступно", req.Status.Label())
		}

		payload := dto.HistoryPayload{
			AssigneeName: executorName,
			Deadline:     &data.Deadline,
			Comment:      data.Note.String,
		}

		if !data.ItemID.Valid {
			// Массовое назначение допустимо только пока ни одна
			// позиция еще не назначена.
			assigned, err := s.itemRepo.CountWithExecutorInTx(ctx, tx, req.ID)
			if err != nil {
				return err
			}
			if assigned > 0 {
				return apperrors.NewConflictError("по заявке уже есть назначенные позиции, укажите позицию")
			}
			affected, err := s.itemRepo.AssignExecutorAllInTx(ctx, tx, req.ID, executor.ID, data.Deadline, data.Note.String)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apperrors.NewConflictError("в заявке нет открытых позиций")
			}
			payload.BulkAssignment = true
		} else {
			item, err := s.itemRepo.FindForUpdateInTx(ctx, tx, req.ID, data.ItemID.Uint64)
			if err != nil {
				return err
			}
			if item.Status.IsClosed() {
				return apperrors.NewConflictError("позиция уже закрыта")
			}
			if err := s.itemRepo.AssignExecutorInTx(ctx, tx, req.ID, item.ItemID, executor.ID, data.Deadline, data.Note.String); err != nil {
				return err
			}
			payload.ItemName, err = s.catalogRepo.ItemName(ctx, item.ItemID)
			if err != nil {
				return err
			}
		}

		if req.Status == entities.StatusConfirmed {
			if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusInProgress); err != nil {
				return err
			}
		}

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionAppointed, payload)
	})
}

func (s *RequestService) AssignOrganization(ctx context.Context, actor entities.Actor, regNumber string, data dto.RedirectOrganizationDTO) error {
	organization, err := s.actorRepo.FindOrganization(ctx, data.OrganizationID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).RedirectOrg {
			return apperrors.NewForbiddenError("привлечение организации в статусе %q недоступно", req.Status.Label())
		}

		item, err := s.itemRepo.FindForUpdateInTx(ctx, tx, req.ID, data.ItemID)
		if err != nil {
			return err
		}
		if item.Status.IsClosed() {
			return apperrors.NewConflictError("позиция уже закрыта")
		}
		// Исполнитель может перепоручить только собственную позицию.
		// Управление и отдел вправе привлечь организацию напрямую.
		if actor.Is(entities.RoleExecutor) {
			if item.ExecutorID == nil || *item.ExecutorID != actor.ProfileID {
				return apperrors.NewForbiddenError("позиция назначена другому исполнителю")
			}
		}

		if err := s.itemRepo.AssignOrganizationInTx(ctx, tx, req.ID, item.ItemID, organization.ID, data.Deadline, data.Note.String); err != nil {
			return err
		}
		if req.Status == entities.StatusConfirmed {
			if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusInProgress); err != nil {
				return err
			}
		}

		itemName, err := s.catalogRepo.ItemName(ctx, item.ItemID)
		if err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionAppointed, dto.HistoryPayload{
			ItemName:     itemName,
			AssigneeName: organization.Name,
			Deadline:     &data.Deadline,
			Comment:      data.Note.String,
		})
	})
}

func (s *RequestService) PlanItem(ctx context.Context, actor entities.Actor, regNumber string, data dto.PlanItemDTO) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Planning {
			return apperrors.NewForbiddenError("планирование в статусе %q недоступно", req.Status.Label())
		}

		item, err := s.itemRepo.FindForUpdateInTx(ctx, tx, req.ID, data.ItemID)
		if err != nil {
			return err
		}
		if item.Status.IsClosed() {
			return apperrors.NewConflictError("позиция уже закрыта")
		}
		if item.ExecutorID == nil || *item.ExecutorID != actor.ProfileID {
			return apperrors.NewForbiddenError("позиция назначена другому исполнителю")
		}

		if err := s.itemRepo.PlanInTx(ctx, tx, req.ID, item.ItemID, data.Deadline); err != nil {
			return err
		}
		if err := s.applyAggregate(ctx, tx, req); err != nil {
			return err
		}

		itemName, err := s.catalogRepo.ItemName(ctx, item.ItemID)
		if err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionPlanned, dto.HistoryPayload{
			ItemName: itemName,
			Deadline: &data.Deadline,
		})
	})
}

// Execute мультиплексирует три завершающих действия: с item_id
// исполнитель или организация закрывает позицию, без item_id отдел
// управления подтверждает выполнение, а управление завершает заявку.
func (s *RequestService) Execute(ctx context.Context, actor entities.Actor, regNumber string, data dto.ExecuteRequestDTO) error {
	if data.ItemID.Valid {
		return s.completeItem(ctx, actor, regNumber, data.ItemID.Uint64, data.Comment.String)
	}

	switch actor.Role {
	case entities.RoleManagementDepartment:
		return s.confirmCompletion(ctx, actor, regNumber)
	case entities.RoleManagement:
		return s.finish(ctx, actor, regNumber)
	default:
		return apperrors.NewForbiddenError("для выполнения позиции укажите позицию")
	}
}

func (s *RequestService) completeItem(ctx context.Context, actor entities.Actor, regNumber string, itemID uint64, comment string) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Ready {
			return apperrors.NewForbiddenError("завершение позиции в статусе %q недоступно", req.Status.Label())
		}

		item, err := s.itemRepo.FindForUpdateInTx(ctx, tx, req.ID, itemID)
		if err != nil {
			return err
		}
		if item.Status.IsClosed() {
			return apperrors.NewConflictError("позиция уже закрыта")
		}
		switch actor.Role {
		case entities.RoleExecutor:
			if item.ExecutorID == nil || *item.ExecutorID != actor.ProfileID {
				return apperrors.NewForbiddenError("позиция назначена другому исполнителю")
			}
		case entities.RoleExecutorOrganization:
			if item.ExecutorOrganizationID == nil || *item.ExecutorOrganizationID != actor.ProfileID {
				return apperrors.NewForbiddenError("позиция назначена другой организации")
			}
		}

		if err := s.itemRepo.CompleteInTx(ctx, tx, req.ID, item.ItemID, comment); err != nil {
			return err
		}
		if err := s.applyAggregate(ctx, tx, req); err != nil {
			return err
		}

		itemName, err := s.catalogRepo.ItemName(ctx, item.ItemID)
		if err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionCompleted, dto.HistoryPayload{
			ItemName: itemName,
			Comment:  comment,
		})
	})
}

func (s *RequestService) confirmCompletion(ctx context.Context, actor entities.Actor, regNumber string) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).ConfirmManagementDepartment {
			return apperrors.NewForbiddenError("подтверждение выполнения в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusEndingCompleted); err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionEndingCompleted, dto.HistoryPayload{})
	})
}

func (s *RequestService) finish(ctx context.Context, actor entities.Actor, regNumber string) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).ConfirmManagement {
			return apperrors.NewForbiddenError("завершение заявки в статусе %q недоступно", req.Status.Label())
		}

		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, req.ID, entities.StatusFinished); err != nil {
			return err
		}
		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionFinished, dto.HistoryPayload{})
	})
}

func (s *RequestService) DeleteAttachment(ctx context.Context, actor entities.Actor, regNumber string, documentID uint64) error {
	var filePath string

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Edit {
			return apperrors.NewForbiddenError("удаление вложений в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		doc, err := s.attachmentRepo.FindForUpdateInTx(ctx, tx, documentID)
		if err != nil {
			return err
		}
		if doc.RequestID != req.ID {
			return apperrors.NewNotFoundError("документ не относится к этой заявке")
		}

		if err := s.attachmentRepo.DeleteInTx(ctx, tx, doc.ID); err != nil {
			return err
		}
		filePath = doc.FilePath

		return s.writeHistory(ctx, tx, req.ID, actor.UserID, entities.ActionUpdate,
			dto.HistoryPayload{DeletedFile: doc.FileName})
	})
	if err != nil {
		return err
	}

	// Файл удаляется только после коммита.
	if err := s.fileStorage.Delete(filePath); err != nil {
		s.logger.Warn("не удалось удалить файл вложения",
			zap.String("filePath", filePath), zap.Error(err))
	}
	return nil
}

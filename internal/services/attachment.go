package services

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/asamarka-625/ApplicationSystem/internal/authz"
	"github.com/asamarka-625/ApplicationSystem/internal/dto"
	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/internal/repositories"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
	"github.com/asamarka-625/ApplicationSystem/pkg/filestorage"
)

type AttachmentServiceInterface interface {
	Upload(ctx context.Context, actor entities.Actor, regNumber string, fileHeader *multipart.FileHeader, documentType string) error
	Download(ctx context.Context, actor entities.Actor, regNumber string, documentID uint64) (io.ReadCloser, *entities.RequestDocument, error)
}

// AttachmentService - загрузка и выдача файлов заявки. Удаление живет
// в движке жизненного цикла, потому что пишет историю.
type AttachmentService struct {
	txManager   repositories.TxManagerInterface
	requestRepo repositories.RequestRepositoryInterface
	itemRepo    repositories.RequestItemRepositoryInterface
	attachRepo  repositories.AttachmentRepositoryInterface
	historyRepo repositories.RequestHistoryRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewAttachmentService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	itemRepo repositories.RequestItemRepositoryInterface,
	attachRepo repositories.AttachmentRepositoryInterface,
	historyRepo repositories.RequestHistoryRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) AttachmentServiceInterface {
	return &AttachmentService{
		txManager:   txManager,
		requestRepo: requestRepo,
		itemRepo:    itemRepo,
		attachRepo:  attachRepo,
		historyRepo: historyRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *AttachmentService) Upload(ctx context.Context, actor entities.Actor, regNumber string, fileHeader *multipart.FileHeader, documentType string) error {
	if documentType == "" {
		documentType = "ATTACHMENT"
	}

	// Файл сохраняется до транзакции: внутри транзакции внешних
	// операций не бывает.
	filePath, err := s.fileStorage.Save(fileHeader)
	if err != nil {
		s.logger.Error("не удалось сохранить файл вложения", zap.Error(err))
		return apperrors.NewExternalError("хранилище файлов недоступно", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, regNumber)
		if err != nil {
			return err
		}
		if !authz.Calculate(actor.Role, req.Status).Edit {
			return apperrors.NewForbiddenError("добавление вложений в статусе %q недоступно", req.Status.Label())
		}
		if err := checkOwnership(actor, req); err != nil {
			return err
		}

		if _, err := s.attachRepo.CreateInTx(ctx, tx, &entities.RequestDocument{
			RequestID:    req.ID,
			DocumentType: documentType,
			FilePath:     filePath,
			FileName:     fileHeader.Filename,
			Size:         fileHeader.Size,
		}); err != nil {
			return err
		}

		return s.historyRepo.CreateInTx(ctx, tx, &entities.RequestHistory{
			RequestID: req.ID,
			UserID:    actor.UserID,
			Action:    entities.ActionUpdate,
			Payload:   dto.HistoryPayload{Comment: "Добавлено вложение: " + fileHeader.Filename}.Marshal(),
		})
	})
	if err != nil {
		// Строка не записана, файл остался - подчищаем.
		if delErr := s.fileStorage.Delete(filePath); delErr != nil {
			s.logger.Warn("не удалось удалить осиротевший файл",
				zap.String("filePath", filePath), zap.Error(delErr))
		}
		return err
	}
	return nil
}

func (s *AttachmentService) Download(ctx context.Context, actor entities.Actor, regNumber string, documentID uint64) (io.ReadCloser, *entities.RequestDocument, error) {
	req, err := s.requestRepo.FindByRegNumber(ctx, regNumber)
	if err != nil {
		return nil, nil, err
	}
	if !authz.Calculate(actor.Role, req.Status).View {
		return nil, nil, apperrors.NewNotFoundError("заявка не найдена")
	}
	items, err := s.itemRepo.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkViewScope(actor, req, items); err != nil {
		return nil, nil, err
	}

	doc, err := s.attachRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.RequestID != req.ID {
		return nil, nil, apperrors.NewNotFoundError("документ не относится к этой заявке")
	}

	reader, err := s.fileStorage.Open(doc.FilePath)
	if err != nil {
		return nil, nil, apperrors.NewExternalError("файл недоступен", err)
	}
	return reader, doc, nil
}

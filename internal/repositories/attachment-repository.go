package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

type AttachmentRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, doc *entities.RequestDocument) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.RequestDocument, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequestDocument, error)
	ListByRequestID(ctx context.Context, requestID uint64) ([]entities.RequestDocument, error)
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	DeleteByTypeInTx(ctx context.Context, tx pgx.Tx, requestID uint64, documentType string) ([]string, error)
}

type AttachmentRepository struct {
	storage *pgxpool.Pool
}

func NewAttachmentRepository(storage *pgxpool.Pool) AttachmentRepositoryInterface {
	return &AttachmentRepository{storage: storage}
}

const documentColumns = `id, request_id, document_type, file_path, file_name, size, created_at`

func scanDocument(row pgx.Row) (*entities.RequestDocument, error) {
	var d entities.RequestDocument
	err := row.Scan(&d.ID, &d.RequestID, &d.DocumentType, &d.FilePath, &d.FileName, &d.Size, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("документ не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования документа: %w", err)
	}
	return &d, nil
}

func (r *AttachmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, doc *entities.RequestDocument) (uint64, error) {
	query := `
		INSERT INTO request_documents (request_id, document_type, file_path, file_name, size, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		doc.RequestID, doc.DocumentType, doc.FilePath, doc.FileName, doc.Size,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка сохранения документа: %w", err)
	}
	return id, nil
}

func (r *AttachmentRepository) FindByID(ctx context.Context, id uint64) (*entities.RequestDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_documents WHERE id = $1`, documentColumns)
	return scanDocument(r.storage.QueryRow(ctx, query, id))
}

func (r *AttachmentRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.RequestDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_documents WHERE id = $1 FOR UPDATE`, documentColumns)
	return scanDocument(tx.QueryRow(ctx, query, id))
}

func (r *AttachmentRepository) ListByRequestID(ctx context.Context, requestID uint64) ([]entities.RequestDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM request_documents WHERE request_id = $1 ORDER BY created_at`, documentColumns)

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения документов заявки: %w", err)
	}
	defer rows.Close()

	docs := make([]entities.RequestDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// DeleteByTypeInTx удаляет все документы заявки заданного типа и
// возвращает пути файлов: сами файлы удаляются после коммита.
func (r *AttachmentRepository) DeleteByTypeInTx(ctx context.Context, tx pgx.Tx, requestID uint64, documentType string) ([]string, error) {
	rows, err := tx.Query(ctx,
		`DELETE FROM request_documents WHERE request_id = $1 AND document_type = $2 RETURNING file_path`,
		requestID, documentType)
	if err != nil {
		return nil, fmt.Errorf("ошибка удаления документов заявки: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("ошибка сканирования пути документа: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (r *AttachmentRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM request_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления документа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("документ не найден")
	}
	return nil
}

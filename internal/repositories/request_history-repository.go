package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
)

// HistoryRow - запись журнала с именем автора действия.
type HistoryRow struct {
	entities.RequestHistory
	UserName string
	UserRole entities.Role
}

type RequestHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.RequestHistory) error
	FindByRequestID(ctx context.Context, requestID uint64) ([]HistoryRow, error)
}

type RequestHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewRequestHistoryRepository(storage *pgxpool.Pool) RequestHistoryRepositoryInterface {
	return &RequestHistoryRepository{storage: storage}
}

func (r *RequestHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.RequestHistory) error {
	query := `
		INSERT INTO request_history (request_id, user_id, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	payload := entry.Payload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	if _, err := tx.Exec(ctx, query, entry.RequestID, entry.UserID, entry.Action, payload, createdAt); err != nil {
		return fmt.Errorf("ошибка записи в журнал заявки: %w", err)
	}
	return nil
}

func (r *RequestHistoryRepository) FindByRequestID(ctx context.Context, requestID uint64) ([]HistoryRow, error) {
	query := `
		SELECT h.id, h.request_id, h.user_id, h.action, h.payload, h.created_at,
			COALESCE(u.full_name, ''), COALESCE(u.role, '')
		FROM request_history h
		LEFT JOIN users u ON h.user_id = u.id
		WHERE h.request_id = $1
		ORDER BY h.created_at, h.id`

	rows, err := r.storage.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала заявки: %w", err)
	}
	defer rows.Close()

	result := make([]HistoryRow, 0)
	for rows.Next() {
		var row HistoryRow
		err := rows.Scan(
			&row.ID, &row.RequestID, &row.UserID, &row.Action, &row.Payload, &row.CreatedAt,
			&row.UserName, &row.UserRole,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

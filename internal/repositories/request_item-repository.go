package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

// PlanningRow - позиция для сводки планирования исполнителя.
type PlanningRow struct {
	entities.RequestItem
	RegistrationNumber      string
	HumanRegistrationNumber string
	RequestStatus           entities.RequestStatus
	DepartmentName          string
}

type RequestItemRepositoryInterface interface {
	InsertInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, count int) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64) error
	UpdateCountInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, count int) error
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64) (*entities.RequestItem, error)
	ListByRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.RequestItem, error)
	ListByRequest(ctx context.Context, requestID uint64) ([]entities.RequestItem, error)
	AssignExecutorAllInTx(ctx context.Context, tx pgx.Tx, requestID, executorID uint64, deadline time.Time, note string) (int64, error)
	AssignExecutorInTx(ctx context.Context, tx pgx.Tx, requestID, itemID, executorID uint64, deadline time.Time, note string) error
	AssignOrganizationInTx(ctx context.Context, tx pgx.Tx, requestID, itemID, organizationID uint64, deadline time.Time, note string) error
	PlanInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, deadline time.Time) error
	CompleteInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, comment string) error
	CancelOpenInTx(ctx context.Context, tx pgx.Tx, requestID uint64) error
	CountWithExecutorInTx(ctx context.Context, tx pgx.Tx, requestID uint64) (int, error)
	StatusesInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.RequestItemStatus, error)
	PlanningList(ctx context.Context, actor entities.Actor) ([]PlanningRow, error)
}

type RequestItemRepository struct {
	storage *pgxpool.Pool
}

func NewRequestItemRepository(storage *pgxpool.Pool) RequestItemRepositoryInterface {
	return &RequestItemRepository{storage: storage}
}

const itemColumns = `ri.request_id, ri.item_id, ri.count, ri.status,
	ri.executor_id, ri.executor_organization_id,
	ri.deadline_executor, ri.deadline_organization, ri.deadline_planning,
	COALESCE(ri.description_executor, ''), COALESCE(ri.description_organization, ''), COALESCE(ri.description_completed, '')`

func scanItem(row pgx.Row, withName bool) (*entities.RequestItem, error) {
	var it entities.RequestItem
	dest := []any{
		&it.RequestID, &it.ItemID, &it.Count, &it.Status,
		&it.ExecutorID, &it.ExecutorOrganizationID,
		&it.DeadlineExecutor, &it.DeadlineOrganization, &it.DeadlinePlanning,
		&it.DescriptionExecutor, &it.DescriptionOrganization, &it.DescriptionCompleted,
	}
	if withName {
		dest = append(dest, &it.ItemName)
	}
	err := row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования позиции заявки: %w", err)
	}
	return &it, nil
}

func (r *RequestItemRepository) InsertInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, count int) error {
	query := `
		INSERT INTO request_items (request_id, item_id, count, status)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, requestID, itemID, count, entities.ItemRegistered); err != nil {
		return fmt.Errorf("ошибка добавления позиции заявки: %w", err)
	}
	return nil
}

func (r *RequestItemRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM request_items WHERE request_id = $1 AND item_id = $2`, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка удаления позиции заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

func (r *RequestItemRepository) UpdateCountInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, count int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE request_items SET count = $1 WHERE request_id = $2 AND item_id = $3`,
		count, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка изменения количества позиции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

func (r *RequestItemRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64) (*entities.RequestItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM request_items ri
		WHERE ri.request_id = $1 AND ri.item_id = $2
		FOR UPDATE`, itemColumns)
	return scanItem(tx.QueryRow(ctx, query, requestID, itemID), false)
}

func (r *RequestItemRepository) listByRequest(ctx context.Context, q querier, requestID uint64) ([]entities.RequestItem, error) {
	query := fmt.Sprintf(`
		SELECT %s, i.name
		FROM request_items ri
		JOIN items i ON ri.item_id = i.id
		WHERE ri.request_id = $1
		ORDER BY ri.item_id`, itemColumns)

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения позиций заявки: %w", err)
	}
	defer rows.Close()

	items := make([]entities.RequestItem, 0)
	for rows.Next() {
		it, err := scanItem(rows, true)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *RequestItemRepository) ListByRequestInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.RequestItem, error) {
	return r.listByRequest(ctx, tx, requestID)
}

func (r *RequestItemRepository) ListByRequest(ctx context.Context, requestID uint64) ([]entities.RequestItem, error) {
	return r.listByRequest(ctx, r.storage, requestID)
}

// AssignExecutorAllInTx назначает исполнителя сразу по всем открытым
// позициям заявки и возвращает число затронутых строк.
func (r *RequestItemRepository) AssignExecutorAllInTx(ctx context.Context, tx pgx.Tx, requestID, executorID uint64, deadline time.Time, note string) (int64, error) {
	query := `
		UPDATE request_items
		SET executor_id = $1, deadline_executor = $2,
			description_executor = NULLIF($3, ''), status = $4
		WHERE request_id = $5 AND status NOT IN ($6, $7)`

	tag, err := tx.Exec(ctx, query,
		executorID, deadline, note, entities.ItemInProgress,
		requestID, entities.ItemCompleted, entities.ItemCancelled)
	if err != nil {
		return 0, fmt.Errorf("ошибка массового назначения исполнителя: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RequestItemRepository) AssignExecutorInTx(ctx context.Context, tx pgx.Tx, requestID, itemID, executorID uint64, deadline time.Time, note string) error {
	query := `
		UPDATE request_items
		SET executor_id = $1, deadline_executor = $2,
			description_executor = NULLIF($3, ''), status = $4
		WHERE request_id = $5 AND item_id = $6`

	tag, err := tx.Exec(ctx, query,
		executorID, deadline, note, entities.ItemInProgress, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка назначения исполнителя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

func (r *RequestItemRepository) AssignOrganizationInTx(ctx context.Context, tx pgx.Tx, requestID, itemID, organizationID uint64, deadline time.Time, note string) error {
	query := `
		UPDATE request_items
		SET executor_organization_id = $1, deadline_organization = $2,
			description_organization = NULLIF($3, ''), status = $4
		WHERE request_id = $5 AND item_id = $6`

	tag, err := tx.Exec(ctx, query,
		organizationID, deadline, note, entities.ItemInProgress, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка привлечения организации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

func (r *RequestItemRepository) PlanInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, deadline time.Time) error {
	query := `
		UPDATE request_items
		SET deadline_planning = $1, status = $2
		WHERE request_id = $3 AND item_id = $4`

	tag, err := tx.Exec(ctx, query, deadline, entities.ItemPlanned, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка планирования позиции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

func (r *RequestItemRepository) CompleteInTx(ctx context.Context, tx pgx.Tx, requestID, itemID uint64, comment string) error {
	query := `
		UPDATE request_items
		SET status = $1, description_completed = NULLIF($2, '')
		WHERE request_id = $3 AND item_id = $4`

	tag, err := tx.Exec(ctx, query, entities.ItemCompleted, comment, requestID, itemID)
	if err != nil {
		return fmt.Errorf("ошибка завершения позиции: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("позиция заявки не найдена")
	}
	return nil
}

// CancelOpenInTx отменяет все еще не закрытые позиции. Используется
// при отклонении заявки.
func (r *RequestItemRepository) CancelOpenInTx(ctx context.Context, tx pgx.Tx, requestID uint64) error {
	_, err := tx.Exec(ctx,
		`UPDATE request_items SET status = $1 WHERE request_id = $2 AND status NOT IN ($3, $4)`,
		entities.ItemCancelled, requestID, entities.ItemCompleted, entities.ItemCancelled)
	if err != nil {
		return fmt.Errorf("ошибка отмены позиций заявки: %w", err)
	}
	return nil
}

func (r *RequestItemRepository) CountWithExecutorInTx(ctx context.Context, tx pgx.Tx, requestID uint64) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM request_items WHERE request_id = $1 AND executor_id IS NOT NULL`,
		requestID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета назначенных позиций: %w", err)
	}
	return count, nil
}

func (r *RequestItemRepository) StatusesInTx(ctx context.Context, tx pgx.Tx, requestID uint64) ([]entities.RequestItemStatus, error) {
	rows, err := tx.Query(ctx, `SELECT status FROM request_items WHERE request_id = $1`, requestID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статусов позиций: %w", err)
	}
	defer rows.Close()

	statuses := make([]entities.RequestItemStatus, 0)
	for rows.Next() {
		var s entities.RequestItemStatus
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статуса позиции: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

// PlanningList возвращает незакрытые назначенные позиции в зоне
// ответственности актора: исполнитель видит свои, отдел управления -
// позиции своих исполнителей, управление - все по своим заявкам.
func (r *RequestItemRepository) PlanningList(ctx context.Context, actor entities.Actor) ([]PlanningRow, error) {
	var scope string
	switch actor.Role {
	case entities.RoleExecutor:
		scope = `ri.executor_id = $1`
	case entities.RoleExecutorOrganization:
		scope = `ri.executor_organization_id = $1`
	case entities.RoleManagementDepartment:
		scope = `r.management_department_id = $1`
	case entities.RoleManagement:
		scope = `r.management_id = $1`
	default:
		return []PlanningRow{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, i.name,
			r.registration_number, r.human_registration_number, r.status, d.name
		FROM request_items ri
		JOIN items i ON ri.item_id = i.id
		JOIN requests r ON ri.request_id = r.id
		JOIN departments d ON r.department_id = d.id
		WHERE %s AND ri.status NOT IN ($2, $3)
		ORDER BY ri.deadline_executor NULLS LAST, r.created_at`, itemColumns, scope)

	rows, err := r.storage.Query(ctx, query, actor.ProfileID,
		entities.ItemCompleted, entities.ItemCancelled)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сводки планирования: %w", err)
	}
	defer rows.Close()

	result := make([]PlanningRow, 0)
	for rows.Next() {
		var row PlanningRow
		err := rows.Scan(
			&row.RequestID, &row.ItemID, &row.Count, &row.Status,
			&row.ExecutorID, &row.ExecutorOrganizationID,
			&row.DeadlineExecutor, &row.DeadlineOrganization, &row.DeadlinePlanning,
			&row.DescriptionExecutor, &row.DescriptionOrganization, &row.DescriptionCompleted,
			&row.ItemName,
			&row.RegistrationNumber, &row.HumanRegistrationNumber, &row.RequestStatus, &row.DepartmentName,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки планирования: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

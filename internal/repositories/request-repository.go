package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

// ListFilter - параметры списка заявок.
type ListFilter struct {
	Status       string
	RequestType  string
	DepartmentID uint64
	Limit        uint64
	Offset       uint64
}

// RequestRow - строка списка с присоединенным подразделением и
// ближайшим сроком по позициям для вычисления просрочки.
type RequestRow struct {
	entities.Request
	DepartmentName  string
	NearestDeadline *time.Time
}

// RequestDetailRow - заявка с именами всех участников для детального вида.
type RequestDetailRow struct {
	entities.Request
	DepartmentName     string
	DepartmentCode     int
	SecretaryName      string
	JudgeName          string
	ManagementName     string
	ManagementDeptName string
}

type RequestRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) (uint64, error)
	SetHumanNumberInTx(ctx context.Context, tx pgx.Tx, id uint64, number string) error
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, regNumber string) (*entities.Request, error)
	FindByRegNumber(ctx context.Context, regNumber string) (*entities.Request, error)
	UpdateContentInTx(ctx context.Context, tx pgx.Tx, id uint64, requestType entities.RequestType, description string, isEmergency bool) error
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error
	AssignManagementInTx(ctx context.Context, tx pgx.Tx, id, managementID, managementDepartmentID uint64) error
	SetCompletedAtInTx(ctx context.Context, tx pgx.Tx, id uint64, completedAt time.Time) error
	List(ctx context.Context, actor entities.Actor, filter ListFilter) ([]RequestRow, uint64, error)
	Detail(ctx context.Context, regNumber string) (*RequestDetailRow, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

const requestColumns = `id, registration_number, human_registration_number, COALESCE(description, ''),
	request_type, status, is_emergency, created_at, updated_at, completed_at,
	secretary_id, judge_id, management_id, management_department_id, department_id`

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var r entities.Request
	err := row.Scan(
		&r.ID, &r.RegistrationNumber, &r.HumanRegistrationNumber, &r.Description,
		&r.RequestType, &r.Status, &r.IsEmergency, &r.CreatedAt, &r.UpdatedAt, &r.CompletedAt,
		&r.SecretaryID, &r.JudgeID, &r.ManagementID, &r.ManagementDepartmentID, &r.DepartmentID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("заявка не найдена")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &r, nil
}

func (r *RequestRepository) CreateInTx(ctx context.Context, tx pgx.Tx, req *entities.Request) (uint64, error) {
	query := `
		INSERT INTO requests (registration_number, human_registration_number, description, request_type,
			status, is_emergency, secretary_id, judge_id, department_id, created_at)
		VALUES ($1, '', NULLIF($2, ''), $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id`

	var id uint64
	err := tx.QueryRow(ctx, query,
		req.RegistrationNumber, req.Description, req.RequestType, req.Status,
		req.IsEmergency, req.SecretaryID, req.JudgeID, req.DepartmentID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return id, nil
}

func (r *RequestRepository) SetHumanNumberInTx(ctx context.Context, tx pgx.Tx, id uint64, number string) error {
	if _, err := tx.Exec(ctx, `UPDATE requests SET human_registration_number = $1 WHERE id = $2`, number, id); err != nil {
		return fmt.Errorf("ошибка присвоения регистрационного номера: %w", err)
	}
	return nil
}

// FindForUpdateInTx перечитывает заявку с блокировкой строки: все
// предусловия мутаций проверяются по этому свежему состоянию.
func (r *RequestRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, regNumber string) (*entities.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE registration_number = $1 FOR UPDATE`, requestColumns)
	return scanRequest(tx.QueryRow(ctx, query, regNumber))
}

func (r *RequestRepository) FindByRegNumber(ctx context.Context, regNumber string) (*entities.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE registration_number = $1`, requestColumns)
	return scanRequest(r.storage.QueryRow(ctx, query, regNumber))
}

func (r *RequestRepository) UpdateContentInTx(ctx context.Context, tx pgx.Tx, id uint64, requestType entities.RequestType, description string, isEmergency bool) error {
	query := `
		UPDATE requests
		SET request_type = $1, description = NULLIF($2, ''), is_emergency = $3, updated_at = NOW()
		WHERE id = $4`
	if _, err := tx.Exec(ctx, query, requestType, description, isEmergency, id); err != nil {
		return fmt.Errorf("ошибка обновления заявки: %w", err)
	}
	return nil
}

func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error {
	if _, err := tx.Exec(ctx, `UPDATE requests SET status = $1, updated_at = NOW() WHERE id = $2`, status, id); err != nil {
		return fmt.Errorf("ошибка смены статуса заявки: %w", err)
	}
	return nil
}

func (r *RequestRepository) AssignManagementInTx(ctx context.Context, tx pgx.Tx, id, managementID, managementDepartmentID uint64) error {
	query := `
		UPDATE requests
		SET management_id = $1, management_department_id = $2, updated_at = NOW()
		WHERE id = $3`
	if _, err := tx.Exec(ctx, query, managementID, managementDepartmentID, id); err != nil {
		return fmt.Errorf("ошибка назначения отдела управления: %w", err)
	}
	return nil
}

func (r *RequestRepository) SetCompletedAtInTx(ctx context.Context, tx pgx.Tx, id uint64, completedAt time.Time) error {
	if _, err := tx.Exec(ctx, `UPDATE requests SET completed_at = $1 WHERE id = $2`, completedAt, id); err != nil {
		return fmt.Errorf("ошибка фиксации времени выполнения: %w", err)
	}
	return nil
}

// scope ограничивает выборку тем, что роли положено видеть.
func scopeByActor(builder sq.SelectBuilder, actor entities.Actor) sq.SelectBuilder {
	switch actor.Role {
	case entities.RoleSecretary:
		return builder.Where(sq.Eq{"r.secretary_id": actor.ProfileID})
	case entities.RoleJudge:
		return builder.Where(sq.Eq{"r.judge_id": actor.ProfileID})
	case entities.RoleManagement:
		return builder.Where(sq.NotEq{"r.status": []string{
			string(entities.StatusRegistered), string(entities.StatusCancelled),
		}})
	case entities.RoleManagementDepartment:
		return builder.Where(sq.Eq{"r.management_department_id": actor.ProfileID})
	case entities.RoleExecutor:
		return builder.Where(
			"EXISTS (SELECT 1 FROM request_items ri WHERE ri.request_id = r.id AND ri.executor_id = ?)",
			actor.ProfileID,
		)
	case entities.RoleExecutorOrganization:
		return builder.Where(
			"EXISTS (SELECT 1 FROM request_items ri WHERE ri.request_id = r.id AND ri.executor_organization_id = ?)",
			actor.ProfileID,
		)
	}
	// Неизвестная роль не видит ничего.
	return builder.Where("1 = 0")
}

func (r *RequestRepository) List(ctx context.Context, actor entities.Actor, filter ListFilter) ([]RequestRow, uint64, error) {
	base := sq.Select().From("requests r").
		LeftJoin("departments d ON r.department_id = d.id").
		PlaceholderFormat(sq.Dollar)
	base = scopeByActor(base, actor)

	if filter.Status != "" && filter.Status != "all" {
		base = base.Where(sq.Eq{"r.status": filter.Status})
	}
	if filter.RequestType != "" && filter.RequestType != "all" {
		base = base.Where(sq.Eq{"r.request_type": filter.RequestType})
	}
	if filter.DepartmentID != 0 {
		base = base.Where(sq.Eq{"r.department_id": filter.DepartmentID})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета заявок: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	listBuilder := base.Columns(
		"r.id", "r.registration_number", "r.human_registration_number", "COALESCE(r.description, '')",
		"r.request_type", "r.status", "r.is_emergency", "r.created_at", "r.updated_at", "r.completed_at",
		"r.secretary_id", "r.judge_id", "r.management_id", "r.management_department_id", "r.department_id",
		"COALESCE(d.name, '')",
		`(SELECT MIN(LEAST(ri.deadline_executor, ri.deadline_organization, ri.deadline_planning))
			FROM request_items ri WHERE ri.request_id = r.id)`,
	).OrderBy("r.is_emergency DESC", "r.created_at DESC")

	if filter.Limit > 0 {
		listBuilder = listBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	result := make([]RequestRow, 0)
	for rows.Next() {
		var row RequestRow
		err := rows.Scan(
			&row.ID, &row.RegistrationNumber, &row.HumanRegistrationNumber, &row.Description,
			&row.RequestType, &row.Status, &row.IsEmergency, &row.CreatedAt, &row.UpdatedAt, &row.CompletedAt,
			&row.SecretaryID, &row.JudgeID, &row.ManagementID, &row.ManagementDepartmentID, &row.DepartmentID,
			&row.DepartmentName, &row.NearestDeadline,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования заявки в списке: %w", err)
		}
		result = append(result, row)
	}
	return result, total, rows.Err()
}

func (r *RequestRepository) Detail(ctx context.Context, regNumber string) (*RequestDetailRow, error) {
	query := `
		SELECT
			r.id, r.registration_number, r.human_registration_number, COALESCE(r.description, ''),
			r.request_type, r.status, r.is_emergency, r.created_at, r.updated_at, r.completed_at,
			r.secretary_id, r.judge_id, r.management_id, r.management_department_id, r.department_id,
			d.name, d.code,
			COALESCE(su.full_name, ''), COALESCE(ju.full_name, ''),
			COALESCE(mu.full_name, ''), COALESCE(mdu.full_name, '')
		FROM requests r
		JOIN departments d ON r.department_id = d.id
		LEFT JOIN secretaries s ON r.secretary_id = s.id
		LEFT JOIN users su ON s.user_id = su.id
		LEFT JOIN judges j ON r.judge_id = j.id
		LEFT JOIN users ju ON j.user_id = ju.id
		LEFT JOIN management m ON r.management_id = m.id
		LEFT JOIN users mu ON m.user_id = mu.id
		LEFT JOIN management_departments md ON r.management_department_id = md.id
		LEFT JOIN users mdu ON md.user_id = mdu.id
		WHERE r.registration_number = $1`

	var row RequestDetailRow
	err := r.storage.QueryRow(ctx, query, regNumber).Scan(
		&row.ID, &row.RegistrationNumber, &row.HumanRegistrationNumber, &row.Description,
		&row.RequestType, &row.Status, &row.IsEmergency, &row.CreatedAt, &row.UpdatedAt, &row.CompletedAt,
		&row.SecretaryID, &row.JudgeID, &row.ManagementID, &row.ManagementDepartmentID, &row.DepartmentID,
		&row.DepartmentName, &row.DepartmentCode,
		&row.SecretaryName, &row.JudgeName,
		&row.ManagementName, &row.ManagementDeptName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("заявка не найдена")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования детальной заявки: %w", err)
	}
	return &row, nil
}

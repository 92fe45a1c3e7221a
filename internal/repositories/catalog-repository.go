package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	apperrors "github.com/asamarka-625/ApplicationSystem/pkg/errors"
)

type CatalogRepositoryInterface interface {
	SearchItems(ctx context.Context, nameLike string, limit uint64) ([]entities.Item, error)
	ItemExists(ctx context.Context, id uint64) (bool, error)
	ItemName(ctx context.Context, id uint64) (string, error)
	ListDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	ListOrganizations(ctx context.Context) ([]entities.ExecutorOrganization, error)
	ListExecutorsByDepartment(ctx context.Context, managementDepartmentID uint64) ([]entities.Executor, error)
	ListManagementDepartments(ctx context.Context, managementID uint64) ([]entities.ManagementDepartment, error)
}

type CatalogRepository struct {
	storage *pgxpool.Pool
}

func NewCatalogRepository(storage *pgxpool.Pool) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage}
}

func (r *CatalogRepository) SearchItems(ctx context.Context, nameLike string, limit uint64) ([]entities.Item, error) {
	builder := sq.Select("id", "name").From("items").
		OrderBy("name").
		PlaceholderFormat(sq.Dollar)
	if nameLike != "" {
		builder = builder.Where(sq.ILike{"name": "%" + nameLike + "%"})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса справочника: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска по справочнику: %w", err)
	}
	defer rows.Close()

	items := make([]entities.Item, 0)
	for rows.Next() {
		var it entities.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования позиции справочника: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) ItemExists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки позиции справочника: %w", err)
	}
	return exists, nil
}

func (r *CatalogRepository) ItemName(ctx context.Context, id uint64) (string, error) {
	var name string
	err := r.storage.QueryRow(ctx, `SELECT name FROM items WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewNotFoundError("позиция справочника не найдена")
	}
	if err != nil {
		return "", fmt.Errorf("ошибка получения названия позиции: %w", err)
	}
	return name, nil
}

func (r *CatalogRepository) ListDepartments(ctx context.Context) ([]entities.Department, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, name, code, COALESCE(address, '') FROM departments ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка судов: %w", err)
	}
	defer rows.Close()

	departments := make([]entities.Department, 0)
	for rows.Next() {
		var d entities.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.Address); err != nil {
			return nil, fmt.Errorf("ошибка сканирования суда: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *CatalogRepository) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	var d entities.Department
	err := r.storage.QueryRow(ctx,
		`SELECT id, name, code, COALESCE(address, '') FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Code, &d.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("суд не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения суда: %w", err)
	}
	return &d, nil
}

func (r *CatalogRepository) ListOrganizations(ctx context.Context) ([]entities.ExecutorOrganization, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, user_id, name FROM executor_organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка организаций: %w", err)
	}
	defer rows.Close()

	orgs := make([]entities.ExecutorOrganization, 0)
	for rows.Next() {
		var eo entities.ExecutorOrganization
		if err := rows.Scan(&eo.ID, &eo.UserID, &eo.Name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования организации: %w", err)
		}
		orgs = append(orgs, eo)
	}
	return orgs, rows.Err()
}

func (r *CatalogRepository) ListExecutorsByDepartment(ctx context.Context, managementDepartmentID uint64) ([]entities.Executor, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, user_id, management_department_id FROM executors WHERE management_department_id = $1 ORDER BY id`,
		managementDepartmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка исполнителей: %w", err)
	}
	defer rows.Close()

	executors := make([]entities.Executor, 0)
	for rows.Next() {
		var e entities.Executor
		if err := rows.Scan(&e.ID, &e.UserID, &e.ManagementDepartmentID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования исполнителя: %w", err)
		}
		executors = append(executors, e)
	}
	return executors, rows.Err()
}

func (r *CatalogRepository) ListManagementDepartments(ctx context.Context, managementID uint64) ([]entities.ManagementDepartment, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, user_id, management_id FROM management_departments WHERE management_id = $1 ORDER BY id`,
		managementID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отделов управления: %w", err)
	}
	defer rows.Close()

	departments := make([]entities.ManagementDepartment, 0)
	for rows.Next() {
		var md entities.ManagementDepartment
		if err := rows.Scan(&md.ID, &md.UserID, &md.ManagementID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отдела управления: %w", err)
		}
		departments = append(departments, md)
	}
	return departments, rows.Err()
}

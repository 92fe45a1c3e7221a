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

type ActorRepositoryInterface interface {
	FindActorByUserID(ctx context.Context, userID uint64) (*entities.Actor, error)
	FindSecretary(ctx context.Context, id uint64) (*entities.Secretary, error)
	FindManagementDepartment(ctx context.Context, id uint64) (*entities.ManagementDepartment, error)
	FindExecutor(ctx context.Context, id uint64) (*entities.Executor, error)
	FindOrganization(ctx context.Context, id uint64) (*entities.ExecutorOrganization, error)
	ProfileUserName(ctx context.Context, role entities.Role, profileID uint64) (string, error)
}

type ActorRepository struct {
	storage *pgxpool.Pool
}

func NewActorRepository(storage *pgxpool.Pool) ActorRepositoryInterface {
	return &ActorRepository{storage: storage}
}

// FindActorByUserID определяет роль пользователя и идентификатор его
// профиля одной выборкой по всем ролевым таблицам.
func (r *ActorRepository) FindActorByUserID(ctx context.Context, userID uint64) (*entities.Actor, error) {
	query := `
		SELECT u.role,
			COALESCE(s.id, 0), COALESCE(j.id, 0), COALESCE(m.id, 0),
			COALESCE(md.id, 0), COALESCE(e.id, 0), COALESCE(eo.id, 0)
		FROM users u
		LEFT JOIN secretaries s ON s.user_id = u.id
		LEFT JOIN judges j ON j.user_id = u.id
		LEFT JOIN management m ON m.user_id = u.id
		LEFT JOIN management_departments md ON md.user_id = u.id
		LEFT JOIN executors e ON e.user_id = u.id
		LEFT JOIN executor_organizations eo ON eo.user_id = u.id
		WHERE u.id = $1`

	var (
		role                                        entities.Role
		secID, judgeID, mgmtID, mdID, execID, orgID uint64
	)
	err := r.storage.QueryRow(ctx, query, userID).Scan(
		&role, &secID, &judgeID, &mgmtID, &mdID, &execID, &orgID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("пользователь не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка определения роли пользователя: %w", err)
	}

	actor := entities.Actor{UserID: userID, Role: role}
	switch role {
	case entities.RoleSecretary:
		actor.ProfileID = secID
	case entities.RoleJudge:
		actor.ProfileID = judgeID
	case entities.RoleManagement:
		actor.ProfileID = mgmtID
	case entities.RoleManagementDepartment:
		actor.ProfileID = mdID
	case entities.RoleExecutor:
		actor.ProfileID = execID
	case entities.RoleExecutorOrganization:
		actor.ProfileID = orgID
	default:
		return nil, apperrors.ErrForbidden
	}
	if actor.ProfileID == 0 {
		return nil, apperrors.NewNotFoundError("профиль пользователя не найден")
	}
	return &actor, nil
}

func (r *ActorRepository) FindSecretary(ctx context.Context, id uint64) (*entities.Secretary, error) {
	var s entities.Secretary
	err := r.storage.QueryRow(ctx,
		`SELECT id, user_id, judge_id, department_id FROM secretaries WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.JudgeID, &s.DepartmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("секретарь не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения секретаря: %w", err)
	}
	return &s, nil
}

func (r *ActorRepository) FindManagementDepartment(ctx context.Context, id uint64) (*entities.ManagementDepartment, error) {
	var md entities.ManagementDepartment
	err := r.storage.QueryRow(ctx,
		`SELECT id, user_id, management_id FROM management_departments WHERE id = $1`, id,
	).Scan(&md.ID, &md.UserID, &md.ManagementID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("отдел управления не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения отдела управления: %w", err)
	}
	return &md, nil
}

func (r *ActorRepository) FindExecutor(ctx context.Context, id uint64) (*entities.Executor, error) {
	var e entities.Executor
	err := r.storage.QueryRow(ctx,
		`SELECT id, user_id, management_department_id FROM executors WHERE id = $1`, id,
	).Scan(&e.ID, &e.UserID, &e.ManagementDepartmentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("исполнитель не найден")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения исполнителя: %w", err)
	}
	return &e, nil
}

func (r *ActorRepository) FindOrganization(ctx context.Context, id uint64) (*entities.ExecutorOrganization, error) {
	var eo entities.ExecutorOrganization
	err := r.storage.QueryRow(ctx,
		`SELECT id, user_id, name FROM executor_organizations WHERE id = $1`, id,
	).Scan(&eo.ID, &eo.UserID, &eo.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("организация не найдена")
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения организации: %w", err)
	}
	return &eo, nil
}

// ProfileUserName возвращает отображаемое имя владельца профиля для
// записей журнала. Для организации это ее название.
func (r *ActorRepository) ProfileUserName(ctx context.Context, role entities.Role, profileID uint64) (string, error) {
	var query string
	switch role {
	case entities.RoleSecretary:
		query = `SELECT u.full_name FROM secretaries p JOIN users u ON p.user_id = u.id WHERE p.id = $1`
	case entities.RoleJudge:
		query = `SELECT u.full_name FROM judges p JOIN users u ON p.user_id = u.id WHERE p.id = $1`
	case entities.RoleManagement:
		query = `SELECT u.full_name FROM management p JOIN users u ON p.user_id = u.id WHERE p.id = $1`
	case entities.RoleManagementDepartment:
		query = `SELECT u.full_name FROM management_departments p JOIN users u ON p.user_id = u.id WHERE p.id = $1`
	case entities.RoleExecutor:
		query = `SELECT u.full_name FROM executors p JOIN users u ON p.user_id = u.id WHERE p.id = $1`
	case entities.RoleExecutorOrganization:
		query = `SELECT name FROM executor_organizations WHERE id = $1`
	default:
		return "", apperrors.ErrForbidden
	}

	var name string
	err := r.storage.QueryRow(ctx, query, profileID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.NewNotFoundError("профиль не найден")
	}
	if err != nil {
		return "", fmt.Errorf("ошибка получения имени профиля: %w", err)
	}
	return name, nil
}

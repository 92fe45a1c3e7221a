package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/internal/entities"
	"github.com/asamarka-625/ApplicationSystem/pkg/utils"
)

// ensureUser создает пользователя, если его еще нет, и возвращает id.
func ensureUser(ctx context.Context, db *pgxpool.Pool, login, fullName string, role entities.Role) (uint64, error) {
	var userID uint64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE login = $1`, login).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ошибка проверки пользователя %q: %w", login, err)
	}

	hash, err := utils.HashPassword(login)
	if err != nil {
		return 0, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	err = db.QueryRow(ctx, `
		INSERT INTO users (login, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		login, hash, fullName, role).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать пользователя %q: %w", login, err)
	}
	return userID, nil
}

func ensureProfile(ctx context.Context, db *pgxpool.Pool, table, insert string, userID uint64, args ...any) (uint64, error) {
	var profileID uint64
	err := db.QueryRow(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1`, table), userID).Scan(&profileID)
	if err == nil {
		return profileID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ошибка проверки профиля в %s: %w", table, err)
	}

	err = db.QueryRow(ctx, insert, append([]any{userID}, args...)...).Scan(&profileID)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать профиль в %s: %w", table, err)
	}
	return profileID, nil
}

// seedUsers создает по одному пользователю на каждую роль, связанных в
// рабочую цепочку: секретарь при судье, исполнитель в отделе управления.
func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание пользователей по ролям...")

	var departmentID uint64
	if err := db.QueryRow(ctx, `SELECT id FROM departments ORDER BY code LIMIT 1`).Scan(&departmentID); err != nil {
		return fmt.Errorf("не найден ни один суд, сначала заполните справочник: %w", err)
	}

	mgmtUserID, err := ensureUser(ctx, db, "management", "Орлов М. М.", entities.RoleManagement)
	if err != nil {
		return err
	}
	mgmtID, err := ensureProfile(ctx, db, "management",
		`INSERT INTO management (user_id) VALUES ($1) RETURNING id`, mgmtUserID)
	if err != nil {
		return err
	}

	mdUserID, err := ensureUser(ctx, db, "md-officer", "Соколова Д. А.", entities.RoleManagementDepartment)
	if err != nil {
		return err
	}
	mdID, err := ensureProfile(ctx, db, "management_departments",
		`INSERT INTO management_departments (user_id, management_id) VALUES ($1, $2) RETURNING id`,
		mdUserID, mgmtID)
	if err != nil {
		return err
	}

	execUserID, err := ensureUser(ctx, db, "executor", "Кузнецов И. П.", entities.RoleExecutor)
	if err != nil {
		return err
	}
	if _, err := ensureProfile(ctx, db, "executors",
		`INSERT INTO executors (user_id, management_department_id) VALUES ($1, $2) RETURNING id`,
		execUserID, mdID); err != nil {
		return err
	}

	orgUserID, err := ensureUser(ctx, db, "org-remstroi", "ООО Ремстрой", entities.RoleExecutorOrganization)
	if err != nil {
		return err
	}
	if _, err := ensureProfile(ctx, db, "executor_organizations",
		`INSERT INTO executor_organizations (user_id, name) VALUES ($1, $2) RETURNING id`,
		orgUserID, "ООО Ремстрой"); err != nil {
		return err
	}

	judgeUserID, err := ensureUser(ctx, db, "judge", "Петров А. В.", entities.RoleJudge)
	if err != nil {
		return err
	}
	judgeID, err := ensureProfile(ctx, db, "judges",
		`INSERT INTO judges (user_id, department_id) VALUES ($1, $2) RETURNING id`,
		judgeUserID, departmentID)
	if err != nil {
		return err
	}

	secUserID, err := ensureUser(ctx, db, "secretary", "Иванова Е. С.", entities.RoleSecretary)
	if err != nil {
		return err
	}
	if _, err := ensureProfile(ctx, db, "secretaries",
		`INSERT INTO secretaries (user_id, judge_id, department_id) VALUES ($1, $2, $3) RETURNING id`,
		secUserID, judgeID, departmentID); err != nil {
		return err
	}

	return nil
}

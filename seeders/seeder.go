package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunAll выполняет сидеры в порядке зависимостей: суды, предметы, люди.
// Каждый сидер идемпотентен, повторный запуск ничего не дублирует.
func RunAll(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("Запуск сидеров...")

	if err := seedDepartments(ctx, db); err != nil {
		return err
	}
	if err := seedItems(ctx, db); err != nil {
		return err
	}
	if err := seedUsers(ctx, db); err != nil {
		return err
	}

	log.Println("Сидеры выполнены.")
	return nil
}

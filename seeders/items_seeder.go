package seeders

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"
)

var baseItems = []string{
	"Бумага офисная A4",
	"Картридж для принтера",
	"Стол письменный",
	"Кресло офисное",
	"Ремонт системы отопления",
	"Обслуживание кондиционера",
}

func seedItems(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Заполнение справочника предметов...")

	for _, name := range baseItems {
		if err := insertItem(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// LoadItemsFromXLSX импортирует справочник предметов из xlsx-файла:
// первая колонка первого листа, по строке на предмет, шапка пропускается.
func LoadItemsFromXLSX(ctx context.Context, db *pgxpool.Pool, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("не удалось открыть файл %q: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("не удалось прочитать лист %q: %w", sheet, err)
	}

	imported := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if err := insertItem(ctx, db, name); err != nil {
			return err
		}
		imported++
	}

	log.Printf("  - Импортировано предметов из %s: %d", path, imported)
	return nil
}

func insertItem(ctx context.Context, db *pgxpool.Pool, name string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO items (name)
		SELECT $1
		WHERE NOT EXISTS (SELECT 1 FROM items WHERE name = $1)`, name)
	if err != nil {
		return fmt.Errorf("не удалось вставить предмет %q: %w", name, err)
	}
	return nil
}

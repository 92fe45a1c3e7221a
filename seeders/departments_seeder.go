package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type departmentRow struct {
	Name    string
	Code    int
	Address string
}

var baseDepartments = []departmentRow{
	{Name: "Центральный районный суд", Code: 101, Address: "ул. Центральная, 1"},
	{Name: "Северный районный суд", Code: 102, Address: "ул. Северная, 15"},
	{Name: "Южный районный суд", Code: 103, Address: "пр. Южный, 8"},
	{Name: "Областной суд", Code: 201, Address: "пл. Судебная, 1"},
}

func seedDepartments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Заполнение справочника судов...")

	for _, d := range baseDepartments {
		_, err := db.Exec(ctx, `
			INSERT INTO departments (name, code, address)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO NOTHING`,
			d.Name, d.Code, d.Address)
		if err != nil {
			return fmt.Errorf("не удалось вставить суд %q: %w", d.Name, err)
		}
	}
	return nil
}

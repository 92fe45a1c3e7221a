package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asamarka-625/ApplicationSystem/migrations"
	"github.com/asamarka-625/ApplicationSystem/pkg/config"
	"github.com/asamarka-625/ApplicationSystem/seeders"
)

func main() {
	itemsFile := flag.String("items", "", "путь к xlsx со справочником предметов")
	flag.Parse()

	cfg := config.New()
	ctx := context.Background()

	db, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось подключиться к базе: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}

	if err := seeders.RunAll(ctx, db); err != nil {
		log.Fatalf("ошибка выполнения сидеров: %v", err)
	}

	if *itemsFile != "" {
		if err := seeders.LoadItemsFromXLSX(ctx, db, *itemsFile); err != nil {
			log.Fatalf("ошибка импорта предметов: %v", err)
		}
	}
}

package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/linemk/artisan-store/internal/config"
)

// buildMigrateDSN добавляет к DATABASE_URL имя таблицы версий миграций
func buildMigrateDSN(databaseURL, migrationTable string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", migrationTable)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func main() {
	var migrationsPathFlag, migrationTableName string
	var down bool
	flag.StringVar(&migrationsPathFlag, "migrations-path", "", "path to migration files")
	flag.StringVar(&migrationTableName, "migrations-table", "migrations", "name of the migrations version table")
	flag.BoolVar(&down, "down", false, "roll back all migrations")
	// -config читается в config.MustLoad
	flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad()
	if !cfg.Database.Configured() {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	migrationsPath := cfg.Migrations.Path
	if migrationsPathFlag != "" {
		migrationsPath = migrationsPathFlag
	}

	dsnForMigrate, err := buildMigrateDSN(cfg.Database.URL, migrationTableName)
	if err != nil {
		log.Fatal(err)
	}

	// Создаем объект мигратора
	m, err := migrate.New("file://"+migrationsPath, dsnForMigrate)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to apply")
		} else {
			log.Fatalf("migration failed: %v", err)
		}
	} else {
		log.Println("Migrations applied successfully")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		log.Fatalf("failed to query tables: %v", err)
	}
	defer rows.Close()

	fmt.Println("Current tables in the database:")
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			log.Fatalf("failed to scan row: %v", err)
		}
		fmt.Println(" -", tableName)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("error reading rows: %v", err)
	}
}

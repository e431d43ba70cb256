package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"profileupdater/lib/migrations"
)

func connectDB() (*sql.DB, error) {
	godotenv.Load()

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		user = "username"
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		password = "password"
	}

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}

	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		dbName = "profileupdater"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database '%s' with user '%s': %v", dbName, user, err)
	}

	return db, nil
}

func applyMigration(db *sql.DB, filename, migrationSQL string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Execute the migration as a single statement so dollar-quoted
	// bodies survive intact
	_, err = tx.Exec(migrationSQL)
	if err != nil {
		pqErr, ok := err.(*pq.Error)
		if ok && pqErr.Code == "42P07" { // duplicate_table
			log.Printf("  Skipping (already exists): %s", pqErr.Message)
			return nil
		}
		return fmt.Errorf("error executing migration: %w", err)
	}

	_, err = tx.Exec("INSERT INTO _migrations (name, applied_at) VALUES ($1, $2)", filename, time.Now())
	if err != nil {
		return fmt.Errorf("error recording migration: %w", err)
	}

	return tx.Commit()
}

func main() {
	log.Println("PostgreSQL Migration Tool")
	log.Println("=========================")

	db, err := connectDB()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Fatalf("Error creating _migrations table: %v", err)
	}

	runner := &migrations.Runner{
		Directory: "infrastructure/postgres/migrations",
		AppliedSet: func() (map[string]bool, error) {
			applied := make(map[string]bool)
			rows, err := db.Query("SELECT name FROM _migrations")
			if err != nil {
				return nil, err
			}
			defer rows.Close()
			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return nil, err
				}
				applied[name] = true
			}
			return applied, rows.Err()
		},
		Apply: func(filename, migrationSQL string) error {
			return applyMigration(db, filename, migrationSQL)
		},
	}
	if err := runner.Run(); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
}

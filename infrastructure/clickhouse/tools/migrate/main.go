package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"profileupdater/lib/database/clickhouse"
	"profileupdater/lib/env"
	"profileupdater/lib/migrations"
)

func applyMigration(filename, migrationSQL string) error {
	ctx := context.Background()

	// ClickHouse takes one statement per Exec
	for _, stmt := range splitSQL(migrationSQL) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if err := clickhouse.DB.Exec(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "Duplicate") {
				log.Printf("  Skipping (already exists): %s", err.Error())
				continue
			}
			return fmt.Errorf("error executing migration: %w", err)
		}
	}

	migrationsTable := fmt.Sprintf("%s._migrations", env.ClickHouseDB)
	if err := clickhouse.DB.Exec(ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", migrationsTable), filename); err != nil {
		return fmt.Errorf("error recording migration: %w", err)
	}

	return nil
}

// splitSQL splits on semicolons outside of string literals
func splitSQL(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	escapeNext := false

	for _, c := range sql {
		if escapeNext {
			current.WriteRune(c)
			escapeNext = false
			continue
		}

		if c == '\\' {
			escapeNext = true
			current.WriteRune(c)
			continue
		}

		if c == '\'' {
			inString = !inString
			current.WriteRune(c)
			continue
		}

		if c == ';' && !inString {
			statements = append(statements, current.String())
			current.Reset()
			continue
		}

		current.WriteRune(c)
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}

func main() {
	log.Println("ClickHouse Migration Tool")
	log.Println("=========================")

	if !clickhouse.Enabled() {
		log.Println("ClickHouse is not configured (CLICKHOUSE_PORT unset); nothing to do")
		return
	}

	clickhouse.Wait()
	conn := clickhouse.DB
	ctx := context.Background()

	createMigrationsTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s._migrations
		(
			name String,
			applied_at DateTime DEFAULT now()
		)
		ENGINE = ReplacingMergeTree(applied_at)
		ORDER BY name
	`, env.ClickHouseDB)
	if err := conn.Exec(ctx, createMigrationsTableSQL); err != nil {
		log.Fatalf("Error creating _migrations table: %v", err)
	}

	runner := &migrations.Runner{
		Directory: "infrastructure/clickhouse/migrations",
		AppliedSet: func() (map[string]bool, error) {
			applied := make(map[string]bool)
			rows, err := conn.Query(ctx, fmt.Sprintf("SELECT name FROM %s._migrations", env.ClickHouseDB))
			if err != nil {
				log.Printf("Warning: could not query applied migrations: %v", err)
				return applied, nil
			}
			defer rows.Close()

			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					return nil, err
				}
				applied[name] = true
			}
			return applied, nil
		},
		Apply: applyMigration,
	}

	if err := runner.Run(); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}
}

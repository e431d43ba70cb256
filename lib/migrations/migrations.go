// Package migrations is the shared runner behind the per-database
// migration tools. Each tool supplies the database-specific pieces
// (applied-set query, statement execution); the runner owns file
// discovery and ordering.
package migrations

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Runner applies the unapplied .sql files from a directory in name order.
// File names start with a numeric prefix, so lexical order is apply order.
type Runner struct {
	Directory string

	// AppliedSet returns the names of migrations already recorded
	AppliedSet func() (map[string]bool, error)

	// Apply executes one migration and records it
	Apply func(filename, migrationSQL string) error
}

func (r *Runner) Run() error {
	files, err := sqlFiles(r.Directory)
	if err != nil {
		return fmt.Errorf("failed to list migrations in %s: %w", r.Directory, err)
	}
	if len(files) == 0 {
		log.Println("No migration files found")
		return nil
	}
	log.Printf("Found %d migration files in %s", len(files), r.Directory)

	applied, err := r.AppliedSet()
	if err != nil {
		return err
	}

	appliedCount := 0
	for _, filename := range files {
		if applied[filename] {
			log.Printf("✓ %s (already applied)", filename)
			continue
		}

		log.Printf("→ Applying migration: %s", filename)

		migrationSQL, err := os.ReadFile(filepath.Join(r.Directory, filename))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filename, err)
		}
		if err := r.Apply(filename, string(migrationSQL)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", filename, err)
		}

		log.Printf("✓ Applied %s", filename)
		appliedCount++
	}

	if appliedCount == 0 {
		log.Println("✓ Database is up to date")
	} else {
		log.Printf("✓ Applied %d new migration(s)", appliedCount)
	}
	return nil
}

func sqlFiles(directory string) ([]string, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"profileupdater/lib/database/postgres"
	"profileupdater/lib/services/registration"
)

// seedRecord mirrors the registry API's upsert payload so the same JSON
// works for both
type seedRecord struct {
	TwitterID    string `json:"twitterID"`
	AtCoderID    string `json:"atcoderID"`
	UpdateBio    bool   `json:"bio"`
	UpdateBanner bool   `json:"banner"`
	Token        string `json:"token"`
	Secret       string `json:"secret"`
}

func seedFiles(seedsDir string) ([]string, error) {
	entries, err := os.ReadDir(seedsDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func seedFile(ctx context.Context, store *registration.Store, filePath string) (int, error) {
	log.Printf("  → Seeding from %s", filepath.Base(filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, record := range records {
		user := &registration.User{
			TwitterID:    record.TwitterID,
			AtCoderID:    record.AtCoderID,
			UpdateBio:    record.UpdateBio,
			UpdateBanner: record.UpdateBanner,
			Token:        record.Token,
			Secret:       record.Secret,
		}
		if err := store.Upsert(ctx, user); err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", record.TwitterID, err)
		}
	}
	return len(records), nil
}

func main() {
	log.Println("Registration Seed Tool")
	log.Println("======================")

	postgres.Wait()
	ctx := context.Background()

	store := registration.NewStore(postgres.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Error ensuring schema: %v", err)
	}

	seedsDir := "infrastructure/postgres/seeds"
	files, err := seedFiles(seedsDir)
	if err != nil {
		log.Fatalf("Error listing seed files in %s: %v", seedsDir, err)
	}
	if len(files) == 0 {
		log.Println("No seed files found")
		return
	}

	total := 0
	for _, file := range files {
		count, err := seedFile(ctx, store, filepath.Join(seedsDir, file))
		if err != nil {
			log.Fatalf("Error seeding from %s: %v", file, err)
		}
		total += count
	}

	log.Printf("✓ Seeded %d registration(s)", total)
}

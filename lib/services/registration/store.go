// Package registration reads and mutates the user registration store.
// The job pipeline itself only ever enumerates records; mutations are
// driven by the registry HTTP API on behalf of the front end.
package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is one registration record, keyed by the immutable Twitter account ID
type User struct {
	TwitterID    string `json:"twitterID"`
	AtCoderID    string `json:"atcoderID"`
	UpdateBio    bool   `json:"bio"`
	UpdateBanner bool   `json:"banner"`
	Token        string `json:"-"`
	Secret       string `json:"-"`
}

// ErrNotFound is returned when no registration exists for a Twitter ID
var ErrNotFound = errors.New("registration not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the registration table if it does not exist yet
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS registered_user (
			twitter_id    TEXT PRIMARY KEY,
			atcoder_id    TEXT NOT NULL,
			update_bio    BOOLEAN NOT NULL DEFAULT FALSE,
			update_banner BOOLEAN NOT NULL DEFAULT FALSE,
			token         TEXT NOT NULL,
			secret        TEXT NOT NULL,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure registration schema: %w", err)
	}
	return nil
}

// ListAll returns every registration record. The dispatcher requires a full
// scan; there is no pagination cursor, a single invocation either reads the
// whole table or fails.
func (s *Store) ListAll(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT twitter_id, atcoder_id, update_bio, update_banner, token, secret
		FROM registered_user`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan registrations: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.TwitterID, &u.AtCoderID, &u.UpdateBio, &u.UpdateBanner, &u.Token, &u.Secret); err != nil {
			return nil, fmt.Errorf("failed to read registration row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get fetches a single registration by Twitter ID
func (s *Store) Get(ctx context.Context, twitterID string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT twitter_id, atcoder_id, update_bio, update_banner, token, secret
		FROM registered_user
		WHERE twitter_id = $1`, twitterID).
		Scan(&u.TwitterID, &u.AtCoderID, &u.UpdateBio, &u.UpdateBanner, &u.Token, &u.Secret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert registers a user or updates an existing registration in place
func (s *Store) Upsert(ctx context.Context, user *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registered_user (twitter_id, atcoder_id, update_bio, update_banner, token, secret)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (twitter_id)
		DO UPDATE SET
			atcoder_id = EXCLUDED.atcoder_id,
			update_bio = EXCLUDED.update_bio,
			update_banner = EXCLUDED.update_banner,
			token = EXCLUDED.token,
			secret = EXCLUDED.secret,
			updated_at = NOW()`,
		user.TwitterID, user.AtCoderID, user.UpdateBio, user.UpdateBanner, user.Token, user.Secret)
	return err
}

// Delete unregisters a user
func (s *Store) Delete(ctx context.Context, twitterID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM registered_user WHERE twitter_id = $1`, twitterID)
	if err != nil {
		return err
	}
	if count, err := result.RowsAffected(); err == nil && count == 0 {
		return ErrNotFound
	}
	return nil
}

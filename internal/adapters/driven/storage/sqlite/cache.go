package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ExtractionCache = (*Cache)(nil)

// Cache stores raw provider output keyed by (content hash, provider).
type Cache struct {
	store *Store
}

// cachedValue keeps time.Time values distinguishable from strings.
type cachedValue struct {
	Time  *time.Time `json:"time,omitempty"`
	Value any        `json:"value,omitempty"`
}

// Get returns the cached raw values for (hash, provider).
func (c *Cache) Get(ctx context.Context, hash, provider string) (map[string]any, bool, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT data FROM extractions WHERE hash = ? AND provider = ?
	`, hash, provider)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scanning extraction: %w", err)
	}

	raw, err := decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decoding extraction for %s: %w", provider, err)
	}
	return raw, true, nil
}

// Put stores raw values for (hash, provider), replacing earlier ones.
func (c *Cache) Put(ctx context.Context, hash, provider string, raw map[string]any) error {
	data, err := encode(raw)
	if err != nil {
		return fmt.Errorf("encoding extraction for %s: %w", provider, err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO extractions (id, hash, provider, data, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash, provider) DO UPDATE SET
			data = excluded.data,
			created_at = excluded.created_at
	`, uuid.New().String(), hash, provider, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	return nil
}

// Purge removes all entries.
func (c *Cache) Purge(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM extractions"); err != nil {
		return fmt.Errorf("purging extractions: %w", err)
	}
	return nil
}

// PruneOlderThan removes entries stored before cutoff and returns how many were removed.
func (c *Cache) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.store.db.ExecContext(ctx, "DELETE FROM extractions WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning extractions: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of cached extractions.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM extractions").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting extractions: %w", err)
	}
	return n, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.store.Path()
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

func encode(raw map[string]any) (string, error) {
	values := make(map[string]cachedValue, len(raw))
	for leaf, v := range raw {
		if t, ok := v.(time.Time); ok {
			values[leaf] = cachedValue{Time: &t}
			continue
		}
		values[leaf] = cachedValue{Value: v}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(data string) (map[string]any, error) {
	var values map[string]cachedValue
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	raw := make(map[string]any, len(values))
	for leaf, v := range values {
		if v.Time != nil {
			raw[leaf] = *v.Time
			continue
		}
		raw[leaf] = v.Value
	}
	return raw, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitown/internal/storage"
)

func (s *Store) GetBlob(ctx context.Context, name string) (storage.Blob, error) {
	var b storage.Blob
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT name, version, data, updated_at FROM blobs WHERE name = ?", name,
	).Scan(&b.Name, &b.Version, &b.Data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Blob{}, fmt.Errorf("blob %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Blob{}, fmt.Errorf("failed to read blob %q: %w", name, err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return storage.Blob{}, fmt.Errorf("failed to parse updated_at for blob %q: %w", name, err)
	}
	return b, nil
}

func (s *Store) PutBlobs(ctx context.Context, blobs ...storage.Blob) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blobs (name, version, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare blob upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, b := range blobs {
		updated := b.UpdatedAt
		if updated.IsZero() {
			updated = now
		}
		if _, err := stmt.ExecContext(ctx, b.Name, b.Version, b.Data, updated.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to write blob %q: %w", b.Name, err)
		}
	}

	return tx.Commit()
}

func (s *Store) ListBlobs(ctx context.Context) ([]storage.Blob, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, version, updated_at FROM blobs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var blobs []storage.Blob
	for rows.Next() {
		var b storage.Blob
		var updatedAt string
		if err := rows.Scan(&b.Name, &b.Version, &updatedAt); err != nil {
			return nil, err
		}
		if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for blob %q: %w", b.Name, err)
		}
		blobs = append(blobs, b)
	}
	return blobs, rows.Err()
}

func (s *Store) DeleteBlobs(ctx context.Context, names ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, "DELETE FROM blobs WHERE name = ?", name); err != nil {
			return fmt.Errorf("failed to delete blob %q: %w", name, err)
		}
	}
	return tx.Commit()
}

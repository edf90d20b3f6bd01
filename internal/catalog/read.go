package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

const entryColumns = "id, name, cube, mdx, content_hash, created_seq"

// List returns all entries with deterministic ordering:
// ORDER BY created_seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the catalog holds no entries.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM queries
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// Get retrieves a single entry by ID.
// Returns sql.ErrNoRows if not found.
func (c *Catalog) Get(ctx context.Context, id string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM queries
		WHERE id = ?
	`, id)

	return scanEntryRow(row)
}

// GetByName retrieves the most recently saved entry with the given
// name, by sequence number.
// Returns sql.ErrNoRows if not found.
func (c *Catalog) GetByName(ctx context.Context, name string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM queries
		WHERE name = ?
		ORDER BY created_seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, name)

	return scanEntryRow(row)
}

// getByHash resolves the entry holding the given content hash. Save
// uses it to hand back the existing entry after a conflict.
func (c *Catalog) getByHash(ctx context.Context, hash string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM queries
		WHERE content_hash = ?
	`, hash)

	return scanEntryRow(row)
}

// scanEntry scans a rows cursor into an Entry.
func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	if err := rows.Scan(&e.ID, &e.Name, &e.Cube, &e.MDX, &e.ContentHash, &e.CreatedSeq); err != nil {
		return Entry{}, fmt.Errorf("scan query entry: %w", err)
	}
	return e, nil
}

// scanEntryRow scans a single row into an Entry.
func scanEntryRow(row *sql.Row) (Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Cube, &e.MDX, &e.ContentHash, &e.CreatedSeq); err != nil {
		return Entry{}, err
	}
	return e, nil
}

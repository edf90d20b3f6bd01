package catalog

import (
	"context"
	"fmt"
)

// Save persists a rendered query and returns its catalog entry.
// Uses ON CONFLICT(content_hash) DO NOTHING for idempotency - saving
// the same (name, mdx) pair again returns the existing entry without
// inserting a duplicate.
func (c *Catalog) Save(ctx context.Context, name, cube, mdxText string) (Entry, error) {
	if name == "" {
		return Entry{}, fmt.Errorf("save query: name is empty")
	}
	if mdxText == "" {
		return Entry{}, fmt.Errorf("save query: query text is empty")
	}

	entry := Entry{
		ID:          c.ids.Generate(),
		Name:        name,
		Cube:        cube,
		MDX:         mdxText,
		ContentHash: contentHash(name, mdxText),
		CreatedSeq:  c.seq.Next(),
	}

	result, err := c.db.ExecContext(ctx, `
		INSERT INTO queries
		(id, name, cube, mdx, content_hash, created_seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`,
		entry.ID,
		entry.Name,
		entry.Cube,
		entry.MDX,
		entry.ContentHash,
		entry.CreatedSeq,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("save query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Entry{}, fmt.Errorf("save query: rows affected: %w", err)
	}
	if rows == 0 {
		// Conflict - identical content is already cataloged, hand back
		// the existing entry.
		existing, err := c.getByHash(ctx, entry.ContentHash)
		if err != nil {
			return Entry{}, fmt.Errorf("save query: read existing: %w", err)
		}
		return existing, nil
	}

	return entry, nil
}

// Delete removes an entry by ID. Returns whether a row was removed;
// deleting an unknown ID is not an error.
func (c *Catalog) Delete(ctx context.Context, id string) (bool, error) {
	result, err := c.db.ExecContext(ctx, `DELETE FROM queries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete query: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete query: rows affected: %w", err)
	}
	return rows > 0, nil
}

package history

import (
	"context"
	"database/sql"
	"time"
)

// Entry is a board the user opened on this machine.
type Entry struct {
	BoardID   string
	Name      string
	OpenedAt  time.Time
	OpenCount int
}

// Repo handles recent boards.
type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, now: now}
}

// Touch records that a board was opened, keeping its latest name.
func (r *Repo) Touch(ctx context.Context, boardID, name string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO recent_boards(board_id, name, opened_at, open_count)
	VALUES (?, ?, ?, 1)
	ON CONFLICT(board_id) DO UPDATE SET
	 name=excluded.name,
	 opened_at=excluded.opened_at,
	 open_count=recent_boards.open_count + 1;
	`, boardID, name, r.now())
	return err
}

// Rename updates the stored name without counting an open.
func (r *Repo) Rename(ctx context.Context, boardID, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE recent_boards SET name = ? WHERE board_id = ?`, name, boardID)
	return err
}

func (r *Repo) Remove(ctx context.Context, boardID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recent_boards WHERE board_id = ?`, boardID)
	return err
}

func (r *Repo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recent_boards`)
	return err
}

// List returns the most recently opened boards first. limit <= 0 means all.
func (r *Repo) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT board_id, name, opened_at, open_count FROM recent_boards
	ORDER BY opened_at DESC, open_count DESC, name
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.BoardID, &e.Name, &e.OpenedAt, &e.OpenCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

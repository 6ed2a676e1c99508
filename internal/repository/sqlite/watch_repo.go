package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NordCoder/Pingwatch/internal/domain/watch"
)

var _ watch.Repo = (*WatchRepo)(nil)

type WatchRepo struct {
	db *DB
}

func NewWatchRepo(db *DB) *WatchRepo { return &WatchRepo{db: db} }

const (
	qInsert      = `INSERT INTO links (url, status, user_id) VALUES (?, ?, ?);`
	qDelete      = `DELETE FROM links WHERE url = ? AND user_id = ?;`
	qListByOwner = `SELECT id, user_id, url, status FROM links WHERE user_id = ? ORDER BY id;`
	qListAll     = `SELECT id, user_id, url, status FROM links ORDER BY id;`
	qClear       = `DELETE FROM links WHERE user_id = ?;`
)

func (r *WatchRepo) Create(ctx context.Context, owner, url string, status watch.Status) (int64, error) {
	if !status.Valid() {
		return 0, watch.ErrInvalidStatus
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.SQL.ExecContext(ctx, qInsert, watch.NormalizeURL(url), string(status), owner)
	if err != nil {
		return 0, &watch.StorageError{Op: "create", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &watch.StorageError{Op: "create", Err: fmt.Errorf("last insert id: %w", err)}
	}
	return id, nil
}

func (r *WatchRepo) Delete(ctx context.Context, owner, url string) (int64, error) {
	return r.exec(ctx, "delete", qDelete, watch.NormalizeURL(url), owner)
}

func (r *WatchRepo) Clear(ctx context.Context, owner string) (int64, error) {
	return r.exec(ctx, "clear", qClear, owner)
}

func (r *WatchRepo) ListByOwner(ctx context.Context, owner string) ([]*watch.Watch, error) {
	return r.list(ctx, "list", qListByOwner, owner)
}

func (r *WatchRepo) ListAll(ctx context.Context) ([]*watch.Watch, error) {
	return r.list(ctx, "list all", qListAll)
}

func (r *WatchRepo) exec(ctx context.Context, op, q string, args ...any) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.SQL.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, &watch.StorageError{Op: op, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &watch.StorageError{Op: op, Err: fmt.Errorf("rows affected: %w", err)}
	}
	return n, nil
}

func (r *WatchRepo) list(ctx context.Context, op, q string, args ...any) ([]*watch.Watch, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, &watch.StorageError{Op: op, Err: fmt.Errorf("query links: %w", err)}
	}
	defer rows.Close()

	var out []*watch.Watch
	for rows.Next() {
		w, err := scanWatch(rows)
		if err != nil {
			return nil, &watch.StorageError{Op: op, Err: err}
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &watch.StorageError{Op: op, Err: fmt.Errorf("rows: %w", err)}
	}
	return out, nil
}

func scanWatch(rows *sql.Rows) (*watch.Watch, error) {
	var (
		w      watch.Watch
		status string
	)
	if err := rows.Scan(&w.ID, &w.Owner, &w.URL, &status); err != nil {
		return nil, fmt.Errorf("scan watch: %w", err)
	}
	w.Status = watch.Status(status)
	return &w, nil
}

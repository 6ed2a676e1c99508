package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/jackc/pgx/v5"
)

var _ watch.Repo = (*WatchRepoImpl)(nil)

type WatchRepoImpl struct {
	db *DB
}

func NewWatchRepo(db *DB) *WatchRepoImpl { return &WatchRepoImpl{db: db} }

const (
	qInsert = `
INSERT INTO links (url, status, user_id)
VALUES ($1, $2, $3)
RETURNING id;
`

	qDelete = `DELETE FROM links WHERE url = $1 AND user_id = $2;`

	qListByOwner = `
SELECT id, user_id, url, status
FROM links
WHERE user_id = $1
ORDER BY id;
`

	qListAll = `
SELECT id, user_id, url, status
FROM links
ORDER BY id;
`

	qClear = `DELETE FROM links WHERE user_id = $1;`
)

func scanWatch(row pgx.Row, w *watch.Watch) error {
	var status string
	if err := row.Scan(&w.ID, &w.Owner, &w.URL, &status); err != nil {
		return fmt.Errorf("scan watch: %w", err)
	}
	w.Status = watch.Status(status)
	return nil
}

func (r *WatchRepoImpl) Create(ctx context.Context, owner, url string, status watch.Status) (int64, error) {
	if !status.Valid() {
		return 0, watch.ErrInvalidStatus
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var id int64
	if err := r.db.Pool.QueryRow(ctx, qInsert, watch.NormalizeURL(url), string(status), owner).Scan(&id); err != nil {
		return 0, storageErr("create", err)
	}
	return id, nil
}

func (r *WatchRepoImpl) Delete(ctx context.Context, owner, url string) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qDelete, watch.NormalizeURL(url), owner)
	if err != nil {
		return 0, storageErr("delete", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *WatchRepoImpl) ListByOwner(ctx context.Context, owner string) ([]*watch.Watch, error) {
	return r.list(ctx, "list", qListByOwner, owner)
}

func (r *WatchRepoImpl) ListAll(ctx context.Context) ([]*watch.Watch, error) {
	return r.list(ctx, "list all", qListAll)
}

func (r *WatchRepoImpl) Clear(ctx context.Context, owner string) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qClear, owner)
	if err != nil {
		return 0, storageErr("clear", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *WatchRepoImpl) list(ctx context.Context, op, q string, args ...any) ([]*watch.Watch, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, storageErr(op, fmt.Errorf("query links: %w", err))
	}
	defer rows.Close()

	var out []*watch.Watch
	for rows.Next() {
		var w watch.Watch
		if err := scanWatch(rows, &w); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, fmt.Errorf("rows: %w", err))
	}
	return out, nil
}

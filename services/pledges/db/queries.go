package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type PledgeEntry struct {
	GovernorName string
	Pledges      string
	Candidate    string
	CachedAt     int64
	ExpiresAt    int64
}

const getPledgeEntry = `
SELECT governor_name, pledges, candidate, cached_at, expires_at
FROM pledge_cache WHERE governor_name = ?
`

func (q *Queries) GetPledgeEntry(ctx context.Context, governorName string) (PledgeEntry, error) {
	row := q.db.QueryRowContext(ctx, getPledgeEntry, governorName)
	var e PledgeEntry
	err := row.Scan(&e.GovernorName, &e.Pledges, &e.Candidate, &e.CachedAt, &e.ExpiresAt)
	return e, err
}

const upsertPledgeEntry = `
INSERT INTO pledge_cache (governor_name, pledges, candidate, cached_at, expires_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (governor_name) DO UPDATE SET
    pledges = excluded.pledges,
    candidate = excluded.candidate,
    cached_at = excluded.cached_at,
    expires_at = excluded.expires_at
`

func (q *Queries) UpsertPledgeEntry(ctx context.Context, arg PledgeEntry) error {
	_, err := q.db.ExecContext(ctx, upsertPledgeEntry,
		arg.GovernorName, arg.Pledges, arg.Candidate, arg.CachedAt, arg.ExpiresAt)
	return err
}

const deletePledgeEntry = `
DELETE FROM pledge_cache WHERE governor_name = ?
`

func (q *Queries) DeletePledgeEntry(ctx context.Context, governorName string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deletePledgeEntry, governorName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

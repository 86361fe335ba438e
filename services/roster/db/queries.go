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

type RosterSnapshot struct {
	RosterType string
	FetchedAt  int64
	Officials  string
}

const getRosterSnapshot = `
SELECT roster_type, fetched_at, officials FROM roster_snapshots WHERE roster_type = ?
`

func (q *Queries) GetRosterSnapshot(ctx context.Context, rosterType string) (RosterSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getRosterSnapshot, rosterType)
	var s RosterSnapshot
	err := row.Scan(&s.RosterType, &s.FetchedAt, &s.Officials)
	return s, err
}

const upsertRosterSnapshot = `
INSERT INTO roster_snapshots (roster_type, fetched_at, officials)
VALUES (?, ?, ?)
ON CONFLICT (roster_type) DO UPDATE SET fetched_at = excluded.fetched_at, officials = excluded.officials
`

func (q *Queries) UpsertRosterSnapshot(ctx context.Context, arg RosterSnapshot) error {
	_, err := q.db.ExecContext(ctx, upsertRosterSnapshot, arg.RosterType, arg.FetchedAt, arg.Officials)
	return err
}

type Winner struct {
	SgTypecode string
	HuboId     string
	SgId       string
	SdName     string
	WiwName    string
	SggName    string
	Name       string
	JdName     string
}

const getWinners = `
SELECT sg_typecode, huboid, sg_id, sd_name, wiw_name, sgg_name, name, jd_name
FROM winners WHERE sg_typecode = ? ORDER BY huboid
`

func (q *Queries) GetWinners(ctx context.Context, sgTypecode string) ([]Winner, error) {
	rows, err := q.db.QueryContext(ctx, getWinners, sgTypecode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var winners []Winner
	for rows.Next() {
		var w Winner
		err := rows.Scan(&w.SgTypecode, &w.HuboId, &w.SgId, &w.SdName, &w.WiwName, &w.SggName, &w.Name, &w.JdName)
		if err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

const upsertWinner = `
INSERT INTO winners (sg_typecode, huboid, sg_id, sd_name, wiw_name, sgg_name, name, jd_name)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (sg_typecode, huboid) DO UPDATE SET
    sg_id = excluded.sg_id,
    sd_name = excluded.sd_name,
    wiw_name = excluded.wiw_name,
    sgg_name = excluded.sgg_name,
    name = excluded.name,
    jd_name = excluded.jd_name
`

func (q *Queries) UpsertWinner(ctx context.Context, arg Winner) error {
	_, err := q.db.ExecContext(ctx, upsertWinner,
		arg.SgTypecode, arg.HuboId, arg.SgId, arg.SdName, arg.WiwName, arg.SggName, arg.Name, arg.JdName)
	return err
}

const deleteWinners = `
DELETE FROM winners WHERE sg_typecode = ?
`

func (q *Queries) DeleteWinners(ctx context.Context, sgTypecode string) error {
	_, err := q.db.ExecContext(ctx, deleteWinners, sgTypecode)
	return err
}

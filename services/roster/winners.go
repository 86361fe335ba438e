package roster

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/services/roster/db"
)

// WinnerCache holds the elected winners of the 2022 local election per
// office type. The underlying election is over, its winner list never
// changes, so entries have no expiry: once a partition is filled it is
// served from the database forever. Clear exists for the day the list
// has to be refetched anyway.
type WinnerCache struct {
	database *sql.DB
	qry      *db.Queries
	client   *nec.Client

	// serializes fill-on-miss so concurrent reconciliations do not
	// fetch the same thousand winners twice
	mu sync.Mutex
}

func NewWinnerCache(database *sql.DB, client *nec.Client) *WinnerCache {
	return &WinnerCache{
		database: database,
		qry:      db.New(database),
		client:   client,
	}
}

func winnerFromRow(row db.Winner) nec.WinnerRecord {
	return nec.WinnerRecord{
		SgTypecode: row.SgTypecode,
		HuboId:     row.HuboId,
		SgId:       row.SgId,
		SdName:     row.SdName,
		WiwName:    row.WiwName,
		SggName:    row.SggName,
		Name:       row.Name,
		JdName:     row.JdName,
	}
}

// Get returns the winner partition for an office type, filling it from
// the election API on first use. A partial fetch is still persisted,
// partial matching beats no matching, and the next Get retries the API
// only if the partition stayed empty.
func (c *WinnerCache) Get(ctx context.Context, sgTypecode string) ([]nec.WinnerRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.qry.GetWinners(ctx, sgTypecode)
	if err != nil {
		return nil, fmt.Errorf("winner cache read: %w", err)
	}
	if len(rows) > 0 {
		winners := make([]nec.WinnerRecord, len(rows))
		for i, row := range rows {
			winners[i] = winnerFromRow(row)
		}
		return winners, nil
	}

	fetched, fetchErr := c.client.FetchWinners(ctx, nec.LocalElection2022, sgTypecode)
	var winners []nec.WinnerRecord
	for _, w := range fetched {
		if w.Elected() {
			winners = append(winners, w)
		}
	}

	if len(winners) > 0 {
		if err := c.persist(ctx, sgTypecode, winners); err != nil {
			slog.WarnContext(ctx, "failed to persist winner partition",
				"sgTypecode", sgTypecode, "err", err)
		}
	}
	if fetchErr != nil && len(winners) == 0 {
		return nil, fetchErr
	}
	if fetchErr != nil {
		slog.WarnContext(ctx, "winner fetch incomplete, keeping partial partition",
			"sgTypecode", sgTypecode, "count", len(winners), "err", fetchErr)
	}
	return winners, nil
}

func (c *WinnerCache) persist(ctx context.Context, sgTypecode string, winners []nec.WinnerRecord) error {
	tx, err := c.database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := c.qry.WithTx(tx)

	for _, w := range winners {
		err := txqry.UpsertWinner(ctx, db.Winner{
			SgTypecode: sgTypecode,
			HuboId:     w.HuboId,
			SgId:       w.SgId,
			SdName:     w.SdName,
			WiwName:    w.WiwName,
			SggName:    w.SggName,
			Name:       w.Name,
			JdName:     w.JdName,
		})
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Clear drops one partition so the next Get refetches it.
func (c *WinnerCache) Clear(ctx context.Context, sgTypecode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qry.DeleteWinners(ctx, sgTypecode)
}

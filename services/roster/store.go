package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"kpolitics-backend/lib/scrapers/wiki"
	"kpolitics-backend/services/roster/db"
)

type RosterType string

const (
	Metropolitan RosterType = "metropolitan"
	Basic        RosterType = "basic"
)

// ErrNotReady means no snapshot has ever been published for the roster
// type, neither in memory nor on disk. Callers should tell clients to
// retry shortly rather than treat this as a hard failure.
var ErrNotReady = errors.New("roster data not ready yet")

type Snapshot struct {
	FetchedAt time.Time
	Officials []wiki.OfficialRecord
}

// Store keeps the latest published snapshot per roster type. Reads are
// served from memory; every publish is written through to the database
// first so a restart comes back up with the last known good data
// instead of an empty roster.
type Store struct {
	qry *db.Queries

	metropolitan atomic.Pointer[Snapshot]
	basic        atomic.Pointer[Snapshot]
}

func NewStore(ctx context.Context, database *sql.DB) (*Store, error) {
	s := &Store{qry: db.New(database)}
	for _, typ := range []RosterType{Metropolitan, Basic} {
		if err := s.load(ctx, typ); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) slot(typ RosterType) *atomic.Pointer[Snapshot] {
	if typ == Basic {
		return &s.basic
	}
	return &s.metropolitan
}

func (s *Store) load(ctx context.Context, typ RosterType) error {
	row, err := s.qry.GetRosterSnapshot(ctx, string(typ))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s snapshot: %w", typ, err)
	}

	var officials []wiki.OfficialRecord
	if err := json.Unmarshal([]byte(row.Officials), &officials); err != nil {
		return fmt.Errorf("load %s snapshot: %w", typ, err)
	}
	s.slot(typ).Store(&Snapshot{
		FetchedAt: time.Unix(row.FetchedAt, 0),
		Officials: officials,
	})
	return nil
}

func (s *Store) Get(typ RosterType) (Snapshot, error) {
	snapshot := s.slot(typ).Load()
	if snapshot == nil {
		return Snapshot{}, ErrNotReady
	}
	return *snapshot, nil
}

// Publish persists the new snapshot and then swaps it in for readers.
// The order matters: if the write fails, readers keep seeing the old
// snapshot and memory never diverges from disk.
func (s *Store) Publish(ctx context.Context, typ RosterType, officials []wiki.OfficialRecord) error {
	encoded, err := json.Marshal(officials)
	if err != nil {
		return fmt.Errorf("publish %s snapshot: %w", typ, err)
	}

	snapshot := &Snapshot{
		FetchedAt: time.Now(),
		Officials: officials,
	}
	err = s.qry.UpsertRosterSnapshot(ctx, db.RosterSnapshot{
		RosterType: string(typ),
		FetchedAt:  snapshot.FetchedAt.Unix(),
		Officials:  string(encoded),
	})
	if err != nil {
		return fmt.Errorf("publish %s snapshot: %w", typ, err)
	}

	s.slot(typ).Store(snapshot)
	return nil
}

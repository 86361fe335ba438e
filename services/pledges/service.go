// Package pledges resolves a governor's name to the election pledges
// they ran on, caching results for a week since pledge sheets are
// immutable once published.
package pledges

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/timezone"
	"kpolitics-backend/services/pledges/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/pledges")

// CacheTTL bounds how long a resolved pledge set is trusted. The sheet
// itself never changes, but the name-to-candidate resolution can, for
// example after a by-election.
const CacheTTL = 7 * 24 * time.Hour

var (
	// ErrNoCandidate means the election archive has no elected
	// governor under the given name.
	ErrNoCandidate = errors.New("no matching candidate found")
	// ErrNoPledges means the candidate exists but never filed a
	// pledge sheet.
	ErrNoPledges = errors.New("no pledge data for candidate")
	// ErrNotCached is returned by the cache-inspection operations.
	ErrNotCached = errors.New("no cached pledge entry")
)

type Service struct {
	qry *db.Queries
	nec *nec.Client
}

func NewService(database *sql.DB, client *nec.Client) Service {
	return Service{
		qry: db.New(database),
		nec: client,
	}
}

var parenthesized = regexp.MustCompile(`\s*\([^)]*\)`)

// Resolve returns the pledges of the named governor, from cache when a
// fresh entry exists. The cache key is the caller's name verbatim, the
// lookup against the archive uses the cleaned form.
func (s Service) Resolve(ctx context.Context, governorName string) (nec.PledgeData, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("governor", governorName))

	now := timezone.Now()
	entry, err := s.qry.GetPledgeEntry(ctx, governorName)
	if err == nil {
		if entry.ExpiresAt > now.Unix() {
			var data nec.PledgeData
			if err := json.Unmarshal([]byte(entry.Pledges), &data); err == nil {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return data, nil
			}
		}
		// expired or unreadable, drop it and resolve from scratch
		if _, err := s.qry.DeletePledgeEntry(ctx, governorName); err != nil {
			span.RecordError(err)
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nec.PledgeData{}, err
	}

	candidate, err := s.findCandidate(ctx, governorName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nec.PledgeData{}, err
	}

	sheet, err := s.nec.FetchPledgeSheet(ctx, candidate.SgId, candidate.SgTypecode, candidate.HuboId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nec.PledgeData{}, err
	}
	if sheet == nil {
		return nec.PledgeData{}, fmt.Errorf("%w: %s", ErrNoPledges, governorName)
	}

	data, err := nec.ParsePledgeSheet(sheet)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nec.PledgeData{}, err
	}

	if err := s.cache(ctx, governorName, data, candidate, now); err != nil {
		// serving uncached beats failing the request
		span.RecordError(err)
	}
	return data, nil
}

// findCandidate picks the governor-level election win under the given
// name, preferring the most recent election.
func (s Service) findCandidate(ctx context.Context, governorName string) (nec.CandidateRecord, error) {
	cleaned := strings.TrimSpace(parenthesized.ReplaceAllString(governorName, ""))
	if cleaned == "" {
		return nec.CandidateRecord{}, fmt.Errorf("%w: empty name", ErrNoCandidate)
	}

	candidates, err := s.nec.SearchCandidates(ctx, cleaned)
	if err != nil {
		return nec.CandidateRecord{}, err
	}

	var best nec.CandidateRecord
	found := false
	for _, c := range candidates {
		if !c.ElectedGovernor() {
			continue
		}
		if !found || c.SgIdNum() > best.SgIdNum() {
			best, found = c, true
		}
	}
	if !found {
		return nec.CandidateRecord{}, fmt.Errorf("%w: %s", ErrNoCandidate, cleaned)
	}
	return best, nil
}

func (s Service) cache(ctx context.Context, governorName string, data nec.PledgeData, candidate nec.CandidateRecord, now time.Time) error {
	encodedData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	encodedCandidate, err := json.Marshal(candidate)
	if err != nil {
		return err
	}
	return s.qry.UpsertPledgeEntry(ctx, db.PledgeEntry{
		GovernorName: governorName,
		Pledges:      string(encodedData),
		Candidate:    string(encodedCandidate),
		CachedAt:     now.Unix(),
		ExpiresAt:    now.Add(CacheTTL).Unix(),
	})
}

// Entry is a cached resolution as stored, expired or not.
type Entry struct {
	GovernorName string              `json:"governorName"`
	Pledges      nec.PledgeData      `json:"pledges"`
	Candidate    nec.CandidateRecord `json:"candidate"`
	CachedAt     time.Time           `json:"cachedAt"`
	ExpiresAt    time.Time           `json:"expiresAt"`
}

// CachedEntry exposes the raw cache row for inspection. Unlike Resolve
// it returns expired entries too.
func (s Service) CachedEntry(ctx context.Context, governorName string) (Entry, error) {
	row, err := s.qry.GetPledgeEntry(ctx, governorName)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotCached
	}
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		GovernorName: row.GovernorName,
		CachedAt:     time.Unix(row.CachedAt, 0),
		ExpiresAt:    time.Unix(row.ExpiresAt, 0),
	}
	if err := json.Unmarshal([]byte(row.Pledges), &entry.Pledges); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(row.Candidate), &entry.Candidate); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// DeleteEntry drops a cached resolution, forcing the next Resolve to
// hit the archive. Returns how many entries were removed.
func (s Service) DeleteEntry(ctx context.Context, governorName string) (int64, error) {
	return s.qry.DeletePledgeEntry(ctx, governorName)
}

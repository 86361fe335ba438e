// Package roster scrapes the metropolitan and basic-level officeholder
// rosters, annotates acting officeholders with their elected
// predecessors, and serves the latest published snapshot while
// refreshing on a schedule.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sort"
	"strings"

	"kpolitics-backend/lib/htmlutil"
	"kpolitics-backend/lib/regions"
	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/scrapers/wiki"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/roster")

type ServiceOptions struct {
	Wiki     wiki.Client
	Nec      *nec.Client
	Database *sql.DB
	// table-position-to-region mapping for the basic-level page,
	// zero value means the current page layout
	BasicSchema wiki.BasicSchema
	// cron schedule for the automatic refresh, empty disables it
	Schedule string
}

type Service struct {
	opts    ServiceOptions
	store   *Store
	winners *WinnerCache
	stop    func()
}

func NewService(ctx context.Context, opts ServiceOptions) (*Service, error) {
	if len(opts.BasicSchema.TableOrder) == 0 {
		opts.BasicSchema = wiki.DefaultBasicSchema()
	}

	store, err := NewStore(ctx, opts.Database)
	if err != nil {
		return nil, err
	}

	s := &Service{
		opts:    opts,
		store:   store,
		winners: NewWinnerCache(opts.Database, opts.Nec),
	}
	if opts.Schedule != "" {
		if err := s.startRefreshDaemon(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close stops the refresh daemon. The database is owned by the caller.
func (s *Service) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// GetRoster returns the latest published snapshot for a roster type.
func (s *Service) GetRoster(ctx context.Context, typ RosterType) (Snapshot, error) {
	_, span := tracer.Start(ctx, "GetRoster")
	defer span.End()
	span.SetAttributes(attribute.String("type", string(typ)))

	snapshot, err := s.store.Get(typ)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}
	return snapshot, nil
}

// Metropolitan returns the metropolitan roster, optionally narrowed to
// regions containing the (normalized) filter.
func (s *Service) Metropolitan(ctx context.Context, regionFilter string) (Snapshot, error) {
	snapshot, err := s.GetRoster(ctx, Metropolitan)
	if err != nil {
		return Snapshot{}, err
	}
	if regionFilter == "" {
		return snapshot, nil
	}

	normalized := regions.Normalize(regionFilter)
	var filtered []wiki.OfficialRecord
	for _, o := range snapshot.Officials {
		if strings.Contains(o.Region, normalized) {
			filtered = append(filtered, o)
		}
	}
	snapshot.Officials = filtered
	return snapshot, nil
}

// BasicLevel returns the basic-level roster, optionally narrowed to one
// metropolitan region. Both the raw and the normalized filter are
// accepted since callers pass either form.
func (s *Service) BasicLevel(ctx context.Context, metroFilter string) (Snapshot, error) {
	snapshot, err := s.GetRoster(ctx, Basic)
	if err != nil {
		return Snapshot{}, err
	}
	if metroFilter == "" {
		return snapshot, nil
	}

	normalized := regions.Normalize(metroFilter)
	var filtered []wiki.OfficialRecord
	for _, o := range snapshot.Officials {
		region := strings.TrimSpace(o.Region)
		if region == normalized || region == metroFilter ||
			strings.HasPrefix(region, normalized) || strings.HasPrefix(region, metroFilter) {
			filtered = append(filtered, o)
		}
	}
	snapshot.Officials = filtered
	return snapshot, nil
}

// RefreshRoster scrapes one roster, reconciles acting officeholders,
// and publishes the result. A scrape or extraction failure leaves the
// previously published snapshot in place.
func (s *Service) RefreshRoster(ctx context.Context, typ RosterType) error {
	ctx, span := tracer.Start(ctx, "RefreshRoster")
	defer span.End()
	span.SetAttributes(attribute.String("type", string(typ)))

	var tables []htmlutil.Table
	var err error
	if typ == Basic {
		tables, err = s.opts.Wiki.BasicTables(ctx)
	} else {
		tables, err = s.opts.Wiki.MetropolitanTables(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var result wiki.ExtractResult
	if typ == Basic {
		result = s.opts.BasicSchema.Extract(ctx, tables)
	} else {
		result = wiki.ExtractMetropolitan(ctx, tables)
	}
	if len(result.Officials) == 0 {
		err := errors.New("extracted an empty roster, refusing to publish")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("officials", len(result.Officials)))

	officials := s.reconcile(ctx, typ, result.Officials)
	if err := s.store.Publish(ctx, typ, officials); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// RefreshAll refreshes both rosters. The two refreshes are independent,
// a failing one never blocks the other from publishing.
func (s *Service) RefreshAll(ctx context.Context) error {
	return errors.Join(
		s.RefreshRoster(ctx, Metropolitan),
		s.RefreshRoster(ctx, Basic),
	)
}

// ClearWinners drops a cached winner partition so the next
// reconciliation refetches it.
func (s *Service) ClearWinners(ctx context.Context, typ RosterType) error {
	sgTypecode := nec.TypeMetropolitan
	if typ == Basic {
		sgTypecode = nec.TypeBasic
	}
	return s.winners.Clear(ctx, sgTypecode)
}

var parenthesized = regexp.MustCompile(`\s*\([^)]*\)`)

// searchNames expands a published officeholder name into the names
// worth searching: the annotated form "전임자 → 대행자(대행)" carries
// two people, a plain name just one.
func searchNames(name string) []string {
	name = parenthesized.ReplaceAllString(name, "")
	var names []string
	for _, part := range strings.Split(name, "→") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// FindPredecessors searches the election archive for everyone who ever
// won the given region's governorship, keyed off the names in the
// current roster. An unknown region returns an empty list.
func (s *Service) FindPredecessors(ctx context.Context, region string, typ RosterType) ([]nec.CandidateRecord, error) {
	ctx, span := tracer.Start(ctx, "FindPredecessors")
	defer span.End()
	span.SetAttributes(
		attribute.String("region", region),
		attribute.String("type", string(typ)),
	)

	normalized := regions.Normalize(region)
	snapshot, err := s.store.Get(typ)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	known := false
	for _, o := range snapshot.Officials {
		if typ == Basic {
			known = o.Region == normalized || strings.Contains(o.Region, normalized)
		} else {
			known = o.Region == normalized || strings.Contains(o.Position, normalized)
		}
		if known {
			break
		}
	}
	if !known {
		return nil, nil
	}

	sgTypecode := nec.TypeMetropolitan
	if typ == Basic {
		sgTypecode = nec.TypeBasic
	}
	regionKey := regions.StripMetroSuffix(normalized)

	seen := make(map[string]nec.CandidateRecord)
	for _, official := range snapshot.Officials {
		for _, name := range searchNames(official.Name) {
			candidates, err := s.opts.Nec.SearchCandidates(ctx, name)
			if err != nil {
				// one failed lookup should not sink the whole search
				continue
			}
			for _, c := range candidates {
				matchesRegion := c.SidoName == normalized ||
					strings.Contains(c.SidoName, regionKey)
				if matchesRegion && c.SgTypecode == sgTypecode && c.ElcoYn == "Y" {
					seen[c.HuboId] = c
				}
			}
		}
	}

	results := make([]nec.CandidateRecord, 0, len(seen))
	for _, c := range seen {
		results = append(results, c)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SgIdNum() > results[j].SgIdNum()
	})
	return results, nil
}

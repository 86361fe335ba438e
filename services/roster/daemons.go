package roster

import (
	"context"
	"log/slog"

	"kpolitics-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the refresh nightly at 4am KST, when both the
// wiki and the election APIs are quietest.
const DefaultSchedule = "0 4 * * *"

func (s *Service) startRefreshDaemon(ctx context.Context) error {
	c := cron.New(cron.WithLocation(timezone.Location))
	_, err := c.AddFunc(s.opts.Schedule, func() {
		if err := s.RefreshAll(ctx); err != nil {
			slog.ErrorContext(ctx, "scheduled roster refresh", "err", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.stop = func() { c.Stop() }

	// cold start: a fresh database has nothing to serve until the
	// first scheduled run, so refresh immediately in the background
	_, metroErr := s.store.Get(Metropolitan)
	_, basicErr := s.store.Get(Basic)
	if metroErr != nil || basicErr != nil {
		go func() {
			if err := s.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "initial roster refresh", "err", err)
			}
		}()
	}
	return nil
}

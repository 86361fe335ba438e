package roster

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"kpolitics-backend/lib/regions"
	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/scrapers/wiki"

	"github.com/antzucaro/matchr"
)

var actingSuffix = regexp.MustCompile(`\s*\(대행\)`)

// CleanName strips the acting marker and surrounding whitespace from a
// scraped officeholder name.
func CleanName(name string) string {
	return strings.TrimSpace(actingSuffix.ReplaceAllString(name, ""))
}

// reconcile annotates acting officeholders with the elected predecessor
// they stand in for. Non-acting records pass through untouched, and on
// any failure the roster is returned as-is: an unannotated roster is
// still correct, a dropped one is not.
func (s *Service) reconcile(ctx context.Context, typ RosterType, officials []wiki.OfficialRecord) []wiki.OfficialRecord {
	hasActing := false
	for _, o := range officials {
		if wiki.DeriveStatus(o.Notes, o.Name) == wiki.StatusActing {
			hasActing = true
			break
		}
	}
	// the common case: nobody is acting, skip the winner lookup
	if !hasActing {
		return officials
	}

	sgTypecode := nec.TypeMetropolitan
	if typ == Basic {
		sgTypecode = nec.TypeBasic
	}
	winners, err := s.winners.Get(ctx, sgTypecode)
	if err != nil || len(winners) == 0 {
		slog.WarnContext(ctx, "predecessor matching skipped",
			"type", typ, "err", err)
		return officials
	}

	reconciled := make([]wiki.OfficialRecord, len(officials))
	for i, official := range officials {
		reconciled[i] = official
		if wiki.DeriveStatus(official.Notes, official.Name) != wiki.StatusActing {
			continue
		}

		var winner nec.WinnerRecord
		var found bool
		if typ == Basic {
			winner, found = matchBasicWinner(official.Position, winners)
		} else {
			winner, found = matchMetropolitanWinner(official.Region, winners)
		}
		if !found {
			continue
		}

		reconciled[i].Name = winner.Name + " → " + CleanName(official.Name) + "(대행)"
		reconciled[i].PreviousGovernor = winner.Name
	}
	return reconciled
}

// matchMetropolitanWinner finds the elected governor of a metropolitan
// region. Exact equality of the suffix-stripped names wins outright;
// otherwise the containment candidates are ranked by string similarity
// so that 경기 cannot land on 경상북도 just because it came first.
func matchMetropolitanWinner(region string, winners []nec.WinnerRecord) (nec.WinnerRecord, bool) {
	key := regions.StripMetroSuffix(region)
	if key == "" {
		return nec.WinnerRecord{}, false
	}

	var best nec.WinnerRecord
	var bestScore float64
	for _, w := range winners {
		if regions.StripMetroSuffix(w.SdName) == key {
			return w, true
		}
		if !strings.Contains(w.SdName, key) {
			continue
		}
		score := matchr.JaroWinkler(key, w.SdName, false)
		if score > bestScore {
			best, bestScore = w, score
		}
	}
	return best, bestScore > 0
}

// matchBasicWinner finds the elected head of a basic-level district
// from the office title, e.g. 종로구청장 matches wiwName 종로구.
func matchBasicWinner(position string, winners []nec.WinnerRecord) (nec.WinnerRecord, bool) {
	key := regions.StripTitleSuffix(position)
	if key == "" {
		return nec.WinnerRecord{}, false
	}

	var best nec.WinnerRecord
	var bestScore float64
	for _, w := range winners {
		if w.WiwName == key || w.SggName == key {
			return w, true
		}
		contained := strings.Contains(w.WiwName, key) ||
			strings.Contains(w.SggName, key) ||
			(w.WiwName != "" && strings.Contains(key, w.WiwName))
		if !contained {
			continue
		}
		score := matchr.JaroWinkler(key, w.WiwName, false)
		if s := matchr.JaroWinkler(key, w.SggName, false); s > score {
			score = s
		}
		if score > bestScore {
			best, bestScore = w, score
		}
	}
	return best, bestScore > 0
}

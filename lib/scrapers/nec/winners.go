package nec

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	winnersPath = "/WinnerInfoInqireService2/getWinnerInfoInqire"

	winnersPageSize = 100
	// 10 pages covers every office type with room to spare, the cap
	// only exists to bound a misbehaving API
	winnersMaxPages = 10
)

// WinnerRecord is one elected official from the winner-list API. The
// json tags are the API's own field names.
type WinnerRecord struct {
	SgId       string `json:"sgId"`
	SgTypecode string `json:"sgTypecode"`
	SdName     string `json:"sdName"`
	WiwName    string `json:"wiwName"`
	SggName    string `json:"sggName"`
	Name       string `json:"name"`
	JdName     string `json:"jdName"`
	HuboId     string `json:"huboid"`
	ElcoYn     string `json:"elcoYn"`
}

// Elected reports whether the record is an actual winner. The winner
// API omits elcoYn on some rows, those are winners by virtue of being
// in the list at all.
func (w WinnerRecord) Elected() bool {
	return w.ElcoYn == "" || w.ElcoYn == "Y"
}

// FetchWinners pages through the winner list for one election and
// office type. On a mid-paging failure it returns the pages collected
// so far along with the error, so callers can choose to keep a partial
// list rather than lose the whole fetch.
func (c *Client) FetchWinners(ctx context.Context, sgId, sgTypecode string) ([]WinnerRecord, error) {
	var all []WinnerRecord
	for page := 1; page <= winnersMaxPages; page++ {
		if page > 1 && c.opts.PageBackoff > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(c.opts.PageBackoff):
			}
		}

		items, err := c.fetchWinnersPage(ctx, sgId, sgTypecode, page)
		if err != nil {
			return all, err
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		if len(items) < winnersPageSize {
			break
		}
	}

	slog.InfoContext(ctx, "fetched election winners",
		"sgId", sgId, "sgTypecode", sgTypecode, "count", len(all))
	return all, nil
}

func (c *Client) fetchWinnersPage(ctx context.Context, sgId, sgTypecode string, page int) ([]WinnerRecord, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sgId":       sgId,
			"sgTypecode": sgTypecode,
			"numOfRows":  fmt.Sprint(winnersPageSize),
			"pageNo":     fmt.Sprint(page),
		}).
		Get(winnersPath)
	if err != nil {
		return nil, c.unavailable(winnersPath, err)
	}
	if !res.IsSuccess() {
		return nil, c.badStatus(winnersPath, res.StatusCode())
	}

	env, err := decodeEnvelope(res.Body())
	if err != nil {
		return nil, err
	}
	return decodeItems[WinnerRecord](env)
}

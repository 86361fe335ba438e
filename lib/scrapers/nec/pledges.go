package nec

import (
	"context"
	"fmt"
	"strconv"

	"kpolitics-backend/lib/scrapers"
)

const pledgesPath = "/ElecPrmsInfoInqireService/getCnddtElecPrmsInfoInqire"

// the pledge sheet holds at most ten ranked pledges, flattened into
// numbered field names
const maxPledgeRanks = 10

type Pledge struct {
	Rank    int    `json:"rank"`
	Domain  string `json:"domain"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type PledgeData struct {
	Name     string   `json:"name"`
	Party    string   `json:"party"`
	SidoName string   `json:"sidoName"`
	SggName  string   `json:"sggName"`
	Count    int      `json:"count"`
	Pledges  []Pledge `json:"pledges"`
}

// FetchPledgeSheet retrieves the raw pledge sheet for one candidacy.
// Returns nil data without error when the API has no sheet for the
// candidate.
func (c *Client) FetchPledgeSheet(ctx context.Context, sgId, sgTypecode, huboId string) (map[string]any, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sgId":       sgId,
			"sgTypecode": sgTypecode,
			"cnddtId":    huboId,
			"numOfRows":  "100",
		}).
		Get(pledgesPath)
	if err != nil {
		return nil, c.unavailable(pledgesPath, err)
	}
	if !res.IsSuccess() {
		return nil, c.badStatus(pledgesPath, res.StatusCode())
	}

	env, err := decodeEnvelope(res.Body())
	if err != nil {
		return nil, err
	}
	items, err := decodeItems[map[string]any](env)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func sheetString(sheet map[string]any, key string) string {
	if v, ok := sheet[key].(string); ok {
		return v
	}
	return ""
}

// ParsePledgeSheet turns the flattened sheet into ranked pledges. Ranks
// are filled in order by the source, so parsing stops at the first
// absent rank. Note the content field is prmmCont, with a doubled m,
// that is the API's actual spelling and not a typo here.
func ParsePledgeSheet(sheet map[string]any) (PledgeData, error) {
	if sheet == nil {
		return PledgeData{}, fmt.Errorf("%w: empty pledge sheet", scrapers.ErrMalformedSource)
	}

	data := PledgeData{
		Name:     sheetString(sheet, "krName"),
		Party:    sheetString(sheet, "partyName"),
		SidoName: sheetString(sheet, "sidoName"),
		SggName:  sheetString(sheet, "sggName"),
	}
	switch v := sheet["prmsCnt"].(type) {
	case string:
		data.Count, _ = strconv.Atoi(v)
	case float64:
		data.Count = int(v)
	}

	for i := 1; i <= maxPledgeRanks; i++ {
		ord := sheetString(sheet, fmt.Sprintf("prmsOrd%d", i))
		if ord == "" {
			break
		}
		rank, err := strconv.Atoi(ord)
		if err != nil {
			return data, fmt.Errorf("%w: prmsOrd%d: %v", scrapers.ErrMalformedSource, i, err)
		}
		data.Pledges = append(data.Pledges, Pledge{
			Rank:    rank,
			Domain:  sheetString(sheet, fmt.Sprintf("prmsRealmName%d", i)),
			Title:   sheetString(sheet, fmt.Sprintf("prmsTitle%d", i)),
			Content: sheetString(sheet, fmt.Sprintf("prmmCont%d", i)),
		})
	}
	return data, nil
}

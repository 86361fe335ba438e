package nec

import (
	"context"
	"strconv"
)

const (
	candidatesPath     = "/CndaSrchService/getCndaSrchInqire"
	candidatesPageSize = 50
)

// CandidateRecord is one row from the by-name candidate search. Unlike
// the winner list, this API spells the province field sidoName.
type CandidateRecord struct {
	SgId       string `json:"sgId"`
	SgName     string `json:"sgName"`
	SgTypecode string `json:"sgTypecode"`
	SidoName   string `json:"sidoName"`
	SggName    string `json:"sggName"`
	Name       string `json:"name"`
	JdName     string `json:"jdName"`
	HuboId     string `json:"huboid"`
	ElcoYn     string `json:"elcoYn"`
}

// ElectedGovernor reports whether the record is a governor-level
// election win. Candidate search returns every race a person ever ran
// in, this narrows it to the ones the engine cares about.
func (c CandidateRecord) ElectedGovernor() bool {
	return (c.SgTypecode == TypeMetropolitan || c.SgTypecode == TypeBasic) &&
		c.ElcoYn == "Y"
}

func (c CandidateRecord) SgIdNum() int {
	n, _ := strconv.Atoi(c.SgId)
	return n
}

// SearchCandidates looks a person up by exact name. Results are
// memoized for a short window because predecessor resolution and
// pledge lookups both start here, often for the same names.
func (c *Client) SearchCandidates(ctx context.Context, name string) ([]CandidateRecord, error) {
	if cached, ok := c.candidateMemo.Get(name); ok {
		return cached, nil
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"name":      name,
			"numOfRows": strconv.Itoa(candidatesPageSize),
		}).
		Get(candidatesPath)
	if err != nil {
		return nil, c.unavailable(candidatesPath, err)
	}
	if !res.IsSuccess() {
		return nil, c.badStatus(candidatesPath, res.StatusCode())
	}

	env, err := decodeEnvelope(res.Body())
	if err != nil {
		return nil, err
	}
	items, err := decodeItems[CandidateRecord](env)
	if err != nil {
		return nil, err
	}

	c.candidateMemo.Add(name, items)
	return items, nil
}

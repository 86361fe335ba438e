// Package nec is a client for the National Election Commission open
// APIs on data.go.kr: elected-winner lists per election, candidate
// search by name, and per-candidate pledge sheets.
package nec

import (
	"encoding/json"
	"fmt"
	"time"

	"kpolitics-backend/lib/scrapers"
	"kpolitics-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultBaseUrl = "https://apis.data.go.kr/9760000"

// 2022 nationwide local election
const LocalElection2022 = "20220601"

// election type codes as the APIs encode them
const (
	TypeMetropolitan = "3"
	TypeBasic        = "4"
)

type ClientOptions struct {
	BaseUrl    string
	ServiceKey string
	Timeout    time.Duration
	// pause between winner-list pages so a full refresh does not
	// hammer the API
	PageBackoff time.Duration
}

type Client struct {
	http *resty.Client
	opts ClientOptions

	// by-name candidate searches repeat heavily: every pledge lookup
	// and every predecessor resolution starts with one
	candidateMemo *expirable.LRU[string, []CandidateRecord]
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 15
	}
	if opts.PageBackoff == 0 {
		opts.PageBackoff = time.Millisecond * 200
	}

	client := resty.New().
		SetBaseURL(opts.BaseUrl).
		SetTimeout(opts.Timeout).
		SetQueryParam("serviceKey", opts.ServiceKey).
		SetQueryParam("resultType", "json")
	telemetry.InstrumentResty(client, "lib/scrapers/nec")

	return &Client{
		http:          client,
		opts:          opts,
		candidateMemo: expirable.NewLRU[string, []CandidateRecord](2048, nil, time.Minute*15),
	}
}

func (c *Client) unavailable(path string, err error) error {
	return fmt.Errorf("%w: %s: %s", scrapers.ErrSourceUnavailable, path, err)
}

func (c *Client) badStatus(path string, status int) error {
	return fmt.Errorf("%w: %s: status %d", scrapers.ErrSourceUnavailable, path, status)
}

// data.go.kr wraps every payload the same way. Items is raw because the
// API serializes a single result as a bare object instead of a
// one-element array, and an empty result as "".
type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			TotalCount int             `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("%w: %v", scrapers.ErrMalformedSource, err)
	}
	return env, nil
}

// decodeItems unwraps body.items into a uniform slice regardless of
// whether the API sent an array, a single object, or nothing.
func decodeItems[T any](env envelope) ([]T, error) {
	raw := env.Response.Body.Items
	if len(raw) == 0 || string(raw) == `""` || string(raw) == "null" {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: items: %v", scrapers.ErrMalformedSource, err)
	}
	if len(wrapper.Item) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(wrapper.Item, &items); err == nil {
		return items, nil
	}
	var single T
	if err := json.Unmarshal(wrapper.Item, &single); err != nil {
		return nil, fmt.Errorf("%w: item: %v", scrapers.ErrMalformedSource, err)
	}
	return []T{single}, nil
}

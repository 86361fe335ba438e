package wiki

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"kpolitics-backend/lib/htmlutil"
	"kpolitics-backend/lib/scrapers"
	"kpolitics-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultMetropolitanUrl = "https://ko.wikipedia.org/wiki/광역지방자치단체장"
	DefaultBasicUrl        = "https://ko.wikipedia.org/wiki/기초지방자치단체장"

	// only wikitable-classed tables carry roster data, the rest of
	// the page is navboxes and infoboxes
	TableSelector = "table.wikitable"
)

type ClientOptions struct {
	MetropolitanUrl string
	BasicUrl        string
	// hard wall-clock bound on one page fetch, the wiki sometimes
	// stalls without closing the connection
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
	opts ClientOptions
}

func NewClient(opts ClientOptions) Client {
	if opts.MetropolitanUrl == "" {
		opts.MetropolitanUrl = DefaultMetropolitanUrl
	}
	if opts.BasicUrl == "" {
		opts.BasicUrl = DefaultBasicUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	client := resty.New().SetTimeout(opts.Timeout)
	// browser-like headers, the public wiki throttles obvious bots
	client.SetTransport(cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport))
	telemetry.InstrumentResty(client, "lib/scrapers/wiki")

	return Client{http: client, opts: opts}
}

func (c Client) fetchTables(ctx context.Context, url string) ([]htmlutil.Table, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", scrapers.ErrSourceUnavailable, url, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: status %d", scrapers.ErrSourceUnavailable, url, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scrapers.ErrMalformedSource, url, err)
	}
	return htmlutil.Tables(doc, TableSelector), nil
}

// MetropolitanTables fetches the metropolitan-governor page reduced to
// text tables.
func (c Client) MetropolitanTables(ctx context.Context) ([]htmlutil.Table, error) {
	return c.fetchTables(ctx, c.opts.MetropolitanUrl)
}

// BasicTables fetches the basic-level-governor page reduced to text
// tables.
func (c Client) BasicTables(ctx context.Context) ([]htmlutil.Table, error) {
	return c.fetchTables(ctx, c.opts.BasicUrl)
}

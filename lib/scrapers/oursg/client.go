package oursg

import (
	"context"
	"fmt"
	"grantsync-backend/lib/restyutil"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://oursggrants.gov.sg"

const (
	listingPath = "/api/v1/grant_metadata/explore_grants"
	detailPath  = "/api/v1/grant_instruction/"
	// the empty user_type is what the site itself sends
	detailQuery = "/?page_type=instruction&user_type="
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// StatusError is returned when the api responds with a non-2xx status.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.Url, e.StatusCode, http.StatusText(e.StatusCode))
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// zero means requests never time out
	Timeout time.Duration
	// if specified, full http messages are written here while debug logging is on
	InstrumentOutput restyutil.InstrumentOutput
	// if specified, wraps the transport of the underlying http client
	WrapTransport func(http.RoundTripper) http.RoundTripper
}

type Client struct {
	BaseUrl string
	Http    *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	baseUrl = strings.TrimRight(baseUrl, "/")

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.WrapTransport != nil {
		inner := client.GetClient().Transport
		if inner == nil {
			inner = http.DefaultTransport
		}
		client.GetClient().Transport = opts.WrapTransport(inner)
	}
	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
}

func (c *Client) ListingUrl() string {
	return c.BaseUrl + listingPath
}

// DetailUrl returns the grant_instruction url for a grant, `value` is
// inserted as is without escaping.
func (c *Client) DetailUrl(value string) string {
	return c.BaseUrl + detailPath + value + detailQuery
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, &StatusError{Url: url, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

// GetGrants fetches the full grant listing.
func (c *Client) GetGrants(ctx context.Context) ([]Grant, error) {
	ctx, span := tracer.Start(ctx, "client:GetGrants")
	defer span.End()

	body, err := c.get(ctx, c.ListingUrl())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch grant listing")
		return nil, err
	}
	grants, err := DecodeListing(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode grant listing")
		return nil, err
	}

	span.SetAttributes(attribute.Int("grants", len(grants)))
	return grants, nil
}

// GetGrantDetails fetches the instruction page data of a single grant.
func (c *Client) GetGrantDetails(ctx context.Context, value string) (any, error) {
	ctx, span := tracer.Start(ctx, "client:GetGrantDetails")
	defer span.End()

	span.SetAttributes(attribute.String("value", value))

	body, err := c.get(ctx, c.DetailUrl(value))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch grant details")
		return nil, err
	}
	details, err := DecodeDetails(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode grant details")
		return nil, err
	}
	return details, nil
}

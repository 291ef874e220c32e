package cgv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"cgv-showtimes/lib/restyutil"
	"cgv-showtimes/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseUrl = "http://www.cgv.co.kr"
	// the endpoint rejects clients that don't look like a browser
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15"

	showtimesPath = "/common/showtimes/iframeTheater.aspx"
)

// FetchError is returned when the showtime page could not be retrieved,
// either because the request failed or because the server did not answer
// with a 2xx status.
type FetchError struct {
	Url string
	// 0 when no response was received
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.Url, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.Url, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// 0 means requests never time out
	Timeout time.Duration
	// 0 means a failed request is not retried
	RetryCount int
	// receives a dump of every http exchange, may be nil
	Dump restyutil.InstrumentOutput
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("negative timeout %s", opts.Timeout)
	}
	if opts.RetryCount < 0 {
		return nil, fmt.Errorf("negative retry count %d", opts.RetryCount)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("User-Agent", UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRetryCount(opts.RetryCount)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= 500
	})

	telemetry.InstrumentResty(client, "cgv-showtimes.lib.scrapers.cgv/http")
	restyutil.InstrumentClient(client, opts.Dump)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// ShowtimesUrl returns the showtime page of a theater on a date. neither
// value is validated.
func (c *Client) ShowtimesUrl(theaterCode, date string) string {
	link := c.BaseUrl.JoinPath(showtimesPath)
	link.RawQuery = fmt.Sprintf(
		"theatercode=%s&date=%s",
		url.QueryEscape(theaterCode),
		url.QueryEscape(date),
	)
	return link.String()
}

// FetchShowtimes makes a single GET for the showtime page and returns
// the raw markup.
func (c *Client) FetchShowtimes(ctx context.Context, theaterCode, date string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchShowtimes")
	defer span.End()

	link := c.ShowtimesUrl(theaterCode, date)
	span.SetAttributes(
		attribute.String("url", link),
		attribute.String("theater_code", theaterCode),
		attribute.String("date", date),
	)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{Url: link, Err: err}
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return "", &FetchError{
			Url:        link,
			StatusCode: res.StatusCode(),
			Err:        errors.New(res.Status()),
		}
	}

	slog.DebugContext(ctx, "fetched showtimes", "url", link, "bytes", len(res.Body()))
	return string(res.Body()), nil
}

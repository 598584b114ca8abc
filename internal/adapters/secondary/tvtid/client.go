// Package tvtid implements the gateway to the tvtid HTTP/JSON backend.
package tvtid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/cache"
	"github.com/kirkegaard/tvtid-go/internal/ports"
)

// maxBodySize bounds a single backend response.
const maxBodySize = 16 << 20

const dateLayout = "2006-01-02"

// Client implements ports.Gateway over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	loc        *time.Location
	logger     *zap.Logger

	cache       ports.ResponseCache
	channelsTTL time.Duration
	scheduleTTL time.Duration
}

var _ ports.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithCache memoizes successful responses. Channel lists and schedules keep their own freshness windows.
func WithCache(c ports.ResponseCache, channelsTTL, scheduleTTL time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.channelsTTL = channelsTTL
		cl.scheduleTTL = scheduleTTL
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLocation sets the zone program times are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new backend client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		loc:        time.Local,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchChannels retrieves all channels
func (c *Client) FetchChannels(ctx context.Context) ([]domain.Channel, error) {
	return fetchDecoded(ctx, c, "channels", nil, c.channelsTTL, decodeChannels)
}

// FetchDayView retrieves the programs of date for each channel in channelIDs.
func (c *Client) FetchDayView(ctx context.Context, date time.Time, channelIDs []string) ([]domain.DayView, error) {
	if len(channelIDs) == 0 {
		return []domain.DayView{}, nil
	}

	query := url.Values{"ch": channelIDs}
	endpoint := "dayviews/" + date.Format(dateLayout)
	return fetchDecoded(ctx, c, endpoint, query, c.scheduleTTL, func(body []byte) ([]domain.DayView, error) {
		return decodeDayViews(body, c.loc)
	})
}

// FetchProgram retrieves the details of a single program.
func (c *Client) FetchProgram(ctx context.Context, channelID, programID string) (domain.Program, error) {
	if channelID == "" || programID == "" {
		return domain.Program{}, fmt.Errorf("%w: channel and program id are required", domain.ErrInvalidQuery)
	}

	endpoint := "channels/" + url.PathEscape(channelID) + "/programs/" + url.PathEscape(programID)
	return fetchDecoded(ctx, c, endpoint, nil, c.scheduleTTL, func(body []byte) (domain.Program, error) {
		return decodeProgram(body, c.loc, channelID)
	})
}

// fetchDecoded reads endpoint through the cache. A payload is only handed to the cache
// once decode accepts it, so malformed responses are never stored.
func fetchDecoded[T any](ctx context.Context, c *Client, endpoint string, query url.Values, ttl time.Duration, decode func([]byte) (T, error)) (T, error) {
	var (
		out     T
		decoded bool
	)
	fetch := func(ctx context.Context) ([]byte, error) {
		body, err := c.get(ctx, endpoint, query)
		if err != nil {
			return nil, err
		}
		v, err := decode(body)
		if err != nil {
			c.logger.Warn("rejected backend response", zap.String("endpoint", endpoint), zap.Error(err))
			return nil, err
		}
		out, decoded = v, true
		return body, nil
	}

	if c.cache == nil {
		if _, err := fetch(ctx); err != nil {
			return out, err
		}
		return out, nil
	}

	payload, err := c.cache.GetOrFetch(ctx, cache.Key(c.baseURL+"/"+endpoint, query), fetch, ttl)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, domain.ErrNetwork) {
			return out, fmt.Errorf("%w: GET %s: %w", domain.ErrNetwork, endpoint, err)
		}
		return out, err
	}
	if decoded {
		return out, nil
	}
	return decode(payload)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json, text/javascript")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: GET %s: unexpected status %s", domain.ErrNetwork, endpoint, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrNetwork, endpoint, err)
	}
	return body, nil
}

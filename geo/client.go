package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yllada/vpn-panel/common"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// Client queries an ip-api.com compatible endpoint for the public identity.
type Client struct {
	Endpoint   string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient returns a client for endpoint whose requests time out after timeout.
// Empty or non-positive values fall back to the defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = common.DefaultGeoEndpoint
	}
	if timeout <= 0 {
		timeout = common.LookupTimeout
	}
	return &Client{
		Endpoint:   endpoint,
		UserAgent:  common.BinaryName,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// response mirrors the ip-api.com JSON body.
type response struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Query       string `json:"query"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
	ISP         string `json:"isp"`
}

// FetchIdentity performs a single lookup. It never retries and never caches.
func (c *Client) FetchIdentity(ctx context.Context) (common.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return common.Identity{}, &common.LookupError{Kind: common.LookupNetwork, Err: err}
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: common.LookupTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return common.Identity{}, &common.LookupError{Kind: common.LookupNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return common.Identity{}, &common.LookupError{Kind: common.LookupNetwork, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return common.Identity{}, badResponse(fmt.Errorf("http status %d", resp.StatusCode))
	}

	return parse(body)
}

func parse(body []byte) (common.Identity, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return common.Identity{}, badResponse(errors.New("empty response body"))
	}

	var r response
	if err := json.Unmarshal([]byte(trimmed), &r); err != nil {
		return common.Identity{}, badResponse(fmt.Errorf("decode: %w", err))
	}

	if r.Status == "fail" {
		msg := r.Message
		if msg == "" {
			msg = "lookup refused"
		}
		return common.Identity{}, badResponse(errors.New(msg))
	}

	var missing []string
	for _, f := range []struct{ key, value string }{
		{"query", r.Query},
		{"country", r.Country},
		{"regionName", r.RegionName},
		{"isp", r.ISP},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return common.Identity{}, badResponse(fmt.Errorf("missing field(s): %s", strings.Join(missing, ", ")))
	}

	return common.Identity{
		IP:          r.Query,
		Country:     r.Country,
		Region:      r.RegionName,
		ISP:         r.ISP,
		CountryCode: strings.ToUpper(r.CountryCode),
		City:        r.City,
	}, nil
}

func badResponse(err error) error {
	return &common.LookupError{Kind: common.LookupBadResponse, Err: err}
}

package nbp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/azielinski/nbpstat/internal/httputil"
	"github.com/azielinski/nbpstat/internal/model"
)

const dateLayout = "2006-01-02"

// Client implements Source against the NBP public REST API.
type Client struct {
	BaseURL    string
	Table      string
	HTTPClient *http.Client
	Retry      httputil.RetryConfig
}

// NewClient builds a live archive client from resolved settings.
func NewClient(settings model.Settings) *Client {
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(settings.BaseURL, "/"),
		Table:      settings.Table,
		HTTPClient: &http.Client{Timeout: timeout},
		Retry:      httputil.DefaultRetry,
	}
}

// ratesResponse is the archive's exchangerates/rates payload.
type ratesResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string  `json:"no"`
		EffectiveDate string  `json:"effectiveDate"`
		Mid           float64 `json:"mid"`
	} `json:"rates"`
}

// FetchSeries returns the currency's mid rates for business days within
// [start, end] inclusive, sorted newest first.
func (c *Client) FetchSeries(ctx context.Context, currency string, start, end time.Time) ([]model.Rate, error) {
	endpoint := fmt.Sprintf("%s/exchangerates/rates/%s/%s/%s/%s/",
		c.BaseURL,
		url.PathEscape(c.Table),
		url.PathEscape(strings.ToUpper(currency)),
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	payload, err := c.get(ctx, currency, endpoint)
	if err != nil {
		return nil, err
	}

	rates := make([]model.Rate, 0, len(payload.Rates))
	for _, r := range payload.Rates {
		day, err := time.ParseInLocation(dateLayout, r.EffectiveDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: bad effective date %q", ErrUnavailable, r.EffectiveDate)
		}
		rates = append(rates, model.Rate{Date: day, Value: r.Mid})
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.After(rates[j].Date) })
	return rates, nil
}

// FetchLatest returns the most recently published rate for the currency.
func (c *Client) FetchLatest(ctx context.Context, currency string) (model.Rate, error) {
	endpoint := fmt.Sprintf("%s/exchangerates/rates/%s/%s/",
		c.BaseURL,
		url.PathEscape(c.Table),
		url.PathEscape(strings.ToUpper(currency)),
	)
	payload, err := c.get(ctx, currency, endpoint)
	if err != nil {
		return model.Rate{}, err
	}
	if len(payload.Rates) == 0 {
		return model.Rate{}, fmt.Errorf("%w: empty rates payload for %s", ErrUnavailable, strings.ToUpper(currency))
	}
	latest := payload.Rates[0]
	day, err := time.ParseInLocation(dateLayout, latest.EffectiveDate, time.UTC)
	if err != nil {
		return model.Rate{}, fmt.Errorf("%w: bad effective date %q", ErrUnavailable, latest.EffectiveDate)
	}
	return model.Rate{Date: day, Value: latest.Mid}, nil
}

func (c *Client) get(ctx context.Context, currency, endpoint string) (*ratesResponse, error) {
	resp, err := httputil.Do(ctx, c.HTTPClient, c.Retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			_ = cerr
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q (table %s)", ErrCurrencyNotFound, strings.ToUpper(currency), c.Table)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &payload, nil
}

// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/storefront-catalog/internal/config"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
)

// maxErrorBodySize bounds how much of a failed response is read for diagnostics.
const maxErrorBodySize = 16 * 1024

// Fetcher pulls the raw rows of the configured range.
type Fetcher interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// Client talks to the Sheets values API.
type Client struct {
	cfg        config.SheetConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	// setupErr is returned from every Fetch when credentials exist but are
	// unusable, such as a private key that is not PEM encoded.
	setupErr error
}

// valueRange is the values.get response body.
type valueRange struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}

// googleError is the error body returned by Google APIs.
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// NewClient builds a client for cfg. It never fails: an unconfigured or
// broken credential setup surfaces on each Fetch instead, so the rest of the
// service can start and serve a persisted snapshot.
func NewClient(cfg config.SheetConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	base := &http.Client{Timeout: timeout}

	c := &Client{
		cfg:        cfg,
		httpClient: base,
		limiter:    newLimiter(cfg.RateLimitPerMinute),
	}

	if cfg.CheckConfigured() == nil && cfg.UsesServiceAccount() {
		conf, err := jwtConfig(&cfg)
		if err != nil {
			logging.Error().Err(err).Msg("Service account credentials are unusable")
			c.setupErr = authFailure(0, err)
			return c
		}
		c.httpClient = oauthClient(conf, base)
	}
	return c
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := perMinute / 12
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}

// Fetch returns every row of the configured range. Rows may be ragged and
// any cell may be empty.
func (c *Client) Fetch(ctx context.Context) ([][]string, error) {
	start := time.Now()

	if err := c.cfg.CheckConfigured(); err != nil {
		metrics.RecordSheetFetch("not_configured", 0, 0)
		return nil, err
	}
	if c.setupErr != nil {
		metrics.RecordSheetFetch("auth", 0, 0)
		return nil, c.setupErr
	}

	rows, err := c.fetch(ctx)
	metrics.RecordSheetFetch(Reason(err), time.Since(start), len(rows))
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Fetched sheet values")
	return rows, nil
}

func (c *Client) fetch(ctx context.Context) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, unavailable(0, false, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.valuesURL(), http.NoBody)
	if err != nil {
		return nil, unavailable(0, true, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, classifyStatus(resp.StatusCode, body)
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, unavailable(resp.StatusCode, false, fmt.Errorf("decode values: %w", err))
	}
	return stringRows(vr.Values), nil
}

func (c *Client) valuesURL() string {
	q := url.Values{}
	q.Set("majorDimension", "ROWS")
	q.Set("valueRenderOption", "FORMATTED_VALUE")
	if !c.cfg.UsesServiceAccount() {
		q.Set("key", c.cfg.APIKey)
	}
	return fmt.Sprintf("%s/%s/values/%s?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"),
		url.PathEscape(c.cfg.SpreadsheetID),
		url.PathEscape(c.cfg.Range),
		q.Encode())
}

// classifyTransportError handles failures where no API response was read.
// A rejected token exchange is an auth failure; everything else (DNS,
// refused connections, timeouts, cancellation) is transient.
func classifyTransportError(err error) *FetchError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		if status == 0 || status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
			return authFailure(status, fmt.Errorf("token exchange rejected: %w", err))
		}
		return unavailable(status, false, fmt.Errorf("token exchange: %w", err))
	}
	return unavailable(0, false, err)
}

func classifyStatus(status int, body []byte) *FetchError {
	var gerr googleError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &gerr) == nil && gerr.Error.Message != "" {
		msg = gerr.Error.Message
	}
	err := errors.New(msg)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return authFailure(status, err)
	case status == http.StatusBadRequest && isInvalidKey(&gerr):
		return authFailure(status, err)
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
		return unavailable(status, false, err)
	default:
		// 404 for an unknown spreadsheet, 400 for a range that does not parse.
		return unavailable(status, true, err)
	}
}

func isInvalidKey(gerr *googleError) bool {
	for _, d := range gerr.Error.Details {
		if d.Reason == "API_KEY_INVALID" {
			return true
		}
	}
	return strings.Contains(gerr.Error.Message, "API key not valid")
}

// stringRows renders every cell as text. FORMATTED_VALUE already yields
// strings; numbers and booleans are handled for other render options.
func stringRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		out := make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
			case string:
				out[j] = v
			case float64:
				out[j] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				out[j] = strconv.FormatBool(v)
			default:
				out[j] = fmt.Sprint(v)
			}
		}
		rows[i] = out
	}
	return rows
}

// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
)

// SheetsRequest is one captured call to the values endpoint.
type SheetsRequest struct {
	SpreadsheetID string
	Range         string
	APIKey        string
	Authorization string
}

// SheetsServer imitates GET /v4/spreadsheets/{id}/values/{range}.
type SheetsServer struct {
	server *httptest.Server
	calls  atomic.Int32

	mu       sync.Mutex
	rows     [][]string
	status   int
	body     string
	requests []SheetsRequest
}

// NewSheetsServer starts a server returning rows. It is closed with t.Cleanup.
func NewSheetsServer(t testing.TB, rows [][]string) *SheetsServer {
	t.Helper()
	s := &SheetsServer{rows: rows}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL is the server root. The client's BaseURL is URL() + "/v4/spreadsheets".
func (s *SheetsServer) URL() string {
	return s.server.URL
}

// BaseURL is the value to use for config.SheetConfig.BaseURL.
func (s *SheetsServer) BaseURL() string {
	return s.server.URL + "/v4/spreadsheets"
}

// SetRows replaces the served rows and clears any failure.
func (s *SheetsServer) SetRows(rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.status = 0
	s.body = ""
}

// Fail makes every request answer status with a Google-style error body
// carrying reason (for example "API_KEY_INVALID"). Status 0 clears it.
func (s *SheetsServer) Fail(status int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = ""
	if status != 0 {
		body, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    status,
				"message": http.StatusText(status),
				"status":  strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
				"details": []map[string]string{{"reason": reason}},
			},
		})
		s.body = string(body)
	}
}

// Calls counts requests served, including failures.
func (s *SheetsServer) Calls() int {
	return int(s.calls.Load())
}

// Requests returns a copy of the captured requests.
func (s *SheetsServer) Requests() []SheetsRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SheetsRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *SheetsServer) handle(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	id, rng, ok := parseValuesPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, SheetsRequest{
		SpreadsheetID: id,
		Range:         rng,
		APIKey:        r.URL.Query().Get("key"),
		Authorization: r.Header.Get("Authorization"),
	})
	status, body, rows := s.status, s.body, s.rows
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = make([]any, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"range":          rng,
		"majorDimension": "ROWS",
		"values":         values,
	})
}

// parseValuesPath splits /v4/spreadsheets/{id}/values/{range}.
func parseValuesPath(path string) (id, rng string, ok bool) {
	rest, found := strings.CutPrefix(path, "/v4/spreadsheets/")
	if !found {
		return "", "", false
	}
	id, rng, found = strings.Cut(rest, "/values/")
	if !found || id == "" || rng == "" {
		return "", "", false
	}
	return id, rng, true
}

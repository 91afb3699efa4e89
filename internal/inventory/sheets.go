package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const sheetsAPIBase = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsClient reads spreadsheet values over the Sheets REST API.
type SheetsClient struct {
	httpClient    *http.Client
	spreadsheetID string
	readRange     string
	apiKey        string
}

// NewSheetsClient creates a client for one spreadsheet range.
func NewSheetsClient(spreadsheetID, readRange, apiKey string, timeout time.Duration) *SheetsClient {
	return &SheetsClient{
		httpClient:    &http.Client{Timeout: timeout},
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		apiKey:        apiKey,
	}
}

// FetchRows downloads the configured range and returns it as string rows.
func (c *SheetsClient) FetchRows(ctx context.Context) ([][]string, error) {
	reqURL := fmt.Sprintf("%s/%s/values/%s?key=%s",
		sheetsAPIBase, c.spreadsheetID, url.PathEscape(c.readRange), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheet request returned status %d: %s", resp.StatusCode, snippet)
	}

	// Cell values arrive untyped; numbers come through as JSON strings when
	// the range is requested with the default FORMATTED_VALUE rendering.
	var payload struct {
		Values [][]json.RawMessage `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode sheet response: %w", err)
	}

	rows := make([][]string, len(payload.Values))
	for i, rawRow := range payload.Values {
		row := make([]string, len(rawRow))
		for j, cell := range rawRow {
			var s string
			if err := json.Unmarshal(cell, &s); err != nil {
				s = string(cell)
			}
			row[j] = s
		}
		rows[i] = row
	}
	return rows, nil
}

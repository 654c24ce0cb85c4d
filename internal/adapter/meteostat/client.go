// Package meteostat downloads historical daily observations from the
// Meteostat bulk data service.
package meteostat

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/domain"
)

// DefaultBaseURL serves one gzip-compressed CSV per station.
const DefaultBaseURL = "https://bulk.meteostat.net/v2/daily"

// bulkColumns is the column order of the headerless daily bulk files.
var bulkColumns = []string{
	"date", "tavg", "tmin", "tmax", "prcp", "snow", "wdir", "wspd", "wpgt", "pres", "tsun",
}

// Client fetches station history.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a bulk-data client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// FetchDaily returns every daily record published for station, oldest first.
func (c *Client) FetchDaily(ctx context.Context, station string) ([]domain.WeatherRecord, error) {
	station = strings.TrimSpace(station)
	if station == "" {
		return nil, fmt.Errorf("station id is required")
	}

	u := fmt.Sprintf("%s/%s.csv.gz", c.baseURL, url.PathEscape(station))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch station %s: %w", station, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("station %s: no bulk data published", station)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("meteostat error: status %d: %s", resp.StatusCode, body)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decompress station %s: %w", station, err)
	}
	defer gz.Close()

	records, err := csvsource.Read(gz, csvsource.Headerless(bulkColumns...))
	if err != nil {
		return nil, fmt.Errorf("parse station %s: %w", station, err)
	}

	c.logger.Info("station history downloaded",
		"station", station,
		"rows", len(records),
		"duration", time.Since(start),
	)
	return records, nil
}

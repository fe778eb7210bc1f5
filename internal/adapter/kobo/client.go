// Package kobo fetches form submissions from the survey platform's REST API.
package kobo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrometeo/pluvio-monitor/internal/domain"
)

// readingsDateField is the submission column the recent-window query filters on.
const readingsDateField = "Fecha_del_dato"

// Client fetches the readings and metadata feeds. Fetches are single
// best-effort requests bounded by the HTTP client timeout; retry policy is
// the caller's concern (in practice: wait for the next cache cycle).
type Client struct {
	readingsURL string
	metadataURL string
	token       string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a feed client. The token is attached to every request as
// a platform-style "Token" authorization header.
func NewClient(readingsURL, metadataURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		readingsURL: readingsURL,
		metadataURL: metadataURL,
		token:       token,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// FetchReadings retrieves readings submissions. A non-zero since narrows the
// fetch to submissions observed on or after that date using the platform's
// query parameter; the zero value fetches the full history.
func (c *Client) FetchReadings(ctx context.Context, since time.Time) ([]domain.Row, error) {
	u := c.readingsURL
	if !since.IsZero() {
		query := fmt.Sprintf(`{"%s":{"$gte":"%s"}}`, readingsDateField, since.UTC().Format("2006-01-02"))
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "query=" + url.QueryEscape(query)
	}
	return c.fetchRows(ctx, u, "readings")
}

// FetchStations retrieves the station metadata submissions.
func (c *Client) FetchStations(ctx context.Context) ([]domain.Row, error) {
	return c.fetchRows(ctx, c.metadataURL, "metadata")
}

// fetchRows performs one authenticated GET and decodes the submission list.
// The platform returns either a bare JSON array or a paginated envelope with
// a "results" key depending on API version; both shapes are accepted.
func (c *Client) fetchRows(ctx context.Context, fullURL, feed string) ([]domain.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", feed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s feed: status %d: %s", feed, resp.StatusCode, body)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", feed, err)
	}

	rows, err := decodeRows(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", feed, err)
	}

	c.logger.Debug("feed fetched", "feed", feed, "rows", len(rows))
	return rows, nil
}

func decodeRows(payload []byte) ([]domain.Row, error) {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []domain.Row
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	var envelope struct {
		Results []domain.Row `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if envelope.Results == nil {
		return nil, fmt.Errorf("response is neither a submission array nor a results envelope")
	}
	return envelope.Results, nil
}

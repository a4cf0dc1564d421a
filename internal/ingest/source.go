package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dailymatch-engine/pkg/models"
)

// RowSource yields batches of already-parsed listing rows. File and CSV
// mechanics live outside this engine; a source only hands over records.
type RowSource interface {
	Fetch(ctx context.Context) ([]models.RawRow, error)
}

// FeedSource pulls a JSON array of row objects from a partner feed URL.
type FeedSource struct {
	url    string
	client *http.Client
}

// NewFeedSource constructs a FeedSource for the given URL.
func NewFeedSource(url string) *FeedSource {
	return &FeedSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and decodes the feed.
func (f *FeedSource) Fetch(ctx context.Context) ([]models.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var rows []models.RawRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return rows, nil
}

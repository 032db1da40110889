package index

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nwah/naviwatch-bridge/watch"
)

type overpassElement struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// Overpass searches OpenStreetMap through an Overpass API endpoint
type Overpass struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewOverpass creates a client for the Overpass interpreter at baseURL
func NewOverpass(baseURL string, limit int, timeout time.Duration) *Overpass {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Overpass{
		baseURL:    baseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// buildQuery returns an Overpass QL query for named objects inside box
func (o *Overpass) buildQuery(box watch.BoundingBox) string {
	b := lonLatBound(box)
	return fmt.Sprintf("[out:json][timeout:%d];nwr[name](%.7f,%.7f,%.7f,%.7f);out tags center %d;",
		int(o.httpClient.Timeout/time.Second), b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon(), o.limit)
}

// Search returns the named objects inside box
func (o *Overpass) Search(ctx context.Context, box watch.BoundingBox) ([]watch.MapObject, error) {
	form := url.Values{"data": {o.buildQuery(box)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request to Overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass API returned status: %d", resp.StatusCode)
	}

	var result overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	objects := make([]watch.MapObject, 0, len(result.Elements))
	for _, el := range result.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		objects = append(objects, watch.MapObject{Name: name, Tags: sortedTags(el.Tags)})
		if len(objects) == o.limit {
			break
		}
	}
	return objects, nil
}

// Close is a no-op; the HTTP client holds no resources worth releasing
func (o *Overpass) Close() error {
	return nil
}

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"placehub/internal/errors"
	"placehub/internal/model"
)

// Client resolves free-text postal addresses to coordinates through a
// LocationIQ-compatible search endpoint. One outbound call per resolve,
// first result wins, no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a geocoder client. timeout bounds the outbound call.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// searchResult is the subset of the provider response the client needs.
// Coordinates arrive as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve geocodes an address. Returns ErrLocationNotFound when the provider
// has no usable result and ErrGeocoderUnavailable when the call itself fails.
func (c *Client) Resolve(ctx context.Context, address string) (model.Location, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", address)
	q.Set("format", "json")
	endpoint := c.baseURL + "/v1/search.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", errors.ErrGeocoderUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", errors.ErrGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// LocationIQ answers 404 for addresses it cannot match.
		return model.Location{}, errors.ErrLocationNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("%w: provider returned status %d", errors.ErrGeocoderUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", errors.ErrGeocoderUnavailable, err)
	}

	if len(results) == 0 || results[0].Lat == "" || results[0].Lon == "" {
		return model.Location{}, errors.ErrLocationNotFound
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return model.Location{}, errors.ErrLocationNotFound
	}

	return model.Location{Lat: lat, Lng: lng}, nil
}

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPProvider is a Provider backed by a lookup service speaking the
// shelfarr metadata JSON API: GET /search?title=&year= for candidates and
// GET /records/{id} for full records.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.httpClient = hc
	}
}

// NewHTTPProvider creates a provider for the service at baseURL. The API
// key may be empty for services that don't require one.
func NewHTTPProvider(baseURL, apiKey string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type searchResponse struct {
	Results []struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Artist string `json:"artist"`
		Year   int    `json:"year"`
	} `json:"results"`
}

// SearchByTitle queries the service for candidates matching a title,
// optionally narrowed by year.
func (p *HTTPProvider) SearchByTitle(ctx context.Context, title string, year int) ([]Candidate, error) {
	q := url.Values{"title": {title}}
	if year != 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if p.apiKey != "" {
		q.Set("api_key", p.apiKey)
	}

	var sr searchResponse
	if err := p.getJSON(ctx, p.baseURL+"/search?"+q.Encode(), &sr); err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}

	cands := make([]Candidate, len(sr.Results))
	for i, r := range sr.Results {
		cands[i] = Candidate{ExternalID: r.ID, Title: r.Title, Artist: r.Artist, Year: r.Year}
	}
	return cands, nil
}

type recordResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   int    `json:"year"`
	Tracks []struct {
		Disc   int    `json:"disc"`
		Number int    `json:"number"`
		Title  string `json:"title"`
	} `json:"tracks"`
}

// GetDetailsByID fetches the full record for an external ID. Unknown IDs
// return (nil, nil).
func (p *HTTPProvider) GetDetailsByID(ctx context.Context, id string) (*Record, error) {
	u := p.baseURL + "/records/" + url.PathEscape(id)
	if p.apiKey != "" {
		u += "?api_key=" + url.QueryEscape(p.apiKey)
	}

	var rr recordResponse
	if err := p.getJSON(ctx, u, &rr); err != nil {
		if err == errNotFound {
			return nil, nil
		}
		return nil, err
	}

	rec := &Record{ExternalID: rr.ID, Title: rr.Title, Artist: rr.Artist, Year: rr.Year}
	for _, tr := range rr.Tracks {
		rec.Tracks = append(rec.Tracks, TrackRecord{DiscNumber: tr.Disc, TrackNumber: tr.Number, Title: tr.Title})
	}
	return rec, nil
}

var errNotFound = fmt.Errorf("record not found")

func (p *HTTPProvider) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/models"
	"golang.org/x/time/rate"
)

// PostcodesIOBaseURL -- postcodes.io API base URL.
const PostcodesIOBaseURL = "https://api.postcodes.io"

// PostcodesIOProvider implements the Provider interface using the free
// postcodes.io API. It only understands UK postcodes, which is exactly the
// input the booking widget collects, and needs no API key.
type PostcodesIOProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the postcodes.io API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for the postcodes.io provider.
var (
	ErrPostcodesEmptyResponse = errors.New("postcodes.io API returned empty response")
	ErrPostcodesNotFound      = errors.New("postcodes.io API did not recognise the postcode")
	ErrPostcodesEmptyAddress  = errors.New("postcodes.io provider got empty postcode")
)

// postcodesResult is a single postcode record from postcodes.io.
type postcodesResult struct {
	Postcode  string  `json:"postcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// postcodesLookupResponse is the envelope for a single-postcode lookup.
type postcodesLookupResponse struct {
	Status int              `json:"status"`
	Result *postcodesResult `json:"result"`
}

// postcodesReverseResponse is the envelope for a reverse lookup, which
// returns a list of nearby postcodes.
type postcodesReverseResponse struct {
	Status int               `json:"status"`
	Result []postcodesResult `json:"result"`
}

// NewPostcodesIOProvider creates a new postcodes.io geocoding provider.
func NewPostcodesIOProvider(rateLimit int, log *slog.Logger) *PostcodesIOProvider {
	const timeout = 10

	return &PostcodesIOProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: PostcodesIOBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewPostcodesIOProviderWithClient allows injecting custom HTTP client.
func NewPostcodesIOProviderWithClient(
	client HTTPClient,
	limiter *rate.Limiter,
	log *slog.Logger,
) *PostcodesIOProvider {
	return &PostcodesIOProvider{
		client:  client,
		baseURL: PostcodesIOBaseURL,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts a UK postcode into geographic coordinates.
func (pp *PostcodesIOProvider) Geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	if err := pp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Geocoding using postcodes.io", "postcode", address)

	// postcodes.io tolerates spaces but not other whitespace
	stripped := strings.Join(strings.Fields(address), "")
	if stripped == "" {
		return nil, ErrPostcodesEmptyAddress
	}

	reqURL := fmt.Sprintf("%s/postcodes/%s", pp.baseURL, url.PathEscape(stripped))

	body, err := pp.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var response postcodesLookupResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode postcodes.io response: %w", err)
	}

	if response.Result == nil {
		return nil, ErrPostcodesEmptyResponse
	}

	pp.log.DebugContext(ctx, "postcodes.io found result",
		"postcode", response.Result.Postcode,
		"lat", response.Result.Latitude,
		"lon", response.Result.Longitude)

	return &models.GeoPoint{
		Latitude:  response.Result.Latitude,
		Longitude: response.Result.Longitude,
	}, nil
}

// ReverseGeocode finds the nearest postcode to a point and returns its
// canonical text.
func (pp *PostcodesIOProvider) ReverseGeocode(ctx context.Context, point models.GeoPoint) (string, error) {
	if err := pp.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	pp.log.DebugContext(ctx, "Reverse geocoding using postcodes.io",
		"lat", point.Latitude, "lon", point.Longitude)

	reqURL, err := url.Parse(pp.baseURL + "/postcodes")
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(point.Longitude, 'f', -1, 64))
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	body, err := pp.get(ctx, reqURL.String())
	if err != nil {
		return "", err
	}

	var response postcodesReverseResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode postcodes.io response: %w", err)
	}

	if len(response.Result) == 0 {
		return "", ErrPostcodesEmptyResponse
	}

	return response.Result[0].Postcode, nil
}

// get executes a GET request against the API and returns the raw body.
func (pp *PostcodesIOProvider) get(ctx context.Context, reqURL string) ([]byte, error) {
	pp.log.DebugContext(ctx, "postcodes.io request URL", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusNotFound:
		return nil, ErrPostcodesNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		pp.log.ErrorContext(ctx, "postcodes.io API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("postcodes.io API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
)

// ErrNoIP is returned when an order carries no client IP
var ErrNoIP = errors.New("no client ip")

// Location is the resolved position of an IP address. Region is the
// provider's region code (e.g. "CA"), comparable with address provinces.
type Location struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Region      string  `json:"region"`
	RegionName  string  `json:"region_name,omitempty"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Locator resolves an IP address to a location
type Locator interface {
	Lookup(ctx context.Context, ip string) (*Location, error)
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// IPAPIProvider resolves IPs with the ip-api.com JSON endpoint
type IPAPIProvider struct {
	client *httpclient.Client
}

var _ Locator = (*IPAPIProvider)(nil)

// NewIPAPIProvider creates a provider; client must be bound to the ip-api base URL
func NewIPAPIProvider(client *httpclient.Client) *IPAPIProvider {
	return &IPAPIProvider{client: client}
}

// Lookup performs a single request; it never retries
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*Location, error) {
	if ip == "" {
		return nil, ErrNoIP
	}

	body, err := p.client.Get(ctx, "/json/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("geolocation API error: %w", err)
	}

	var resp ipAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("geolocation API error: decode response: %w", err)
	}
	if resp.Status == "fail" {
		return nil, fmt.Errorf("ip lookup failed: %s", resp.Message)
	}

	return &Location{
		Country:     resp.Country,
		CountryCode: resp.CountryCode,
		Region:      resp.Region,
		RegionName:  resp.RegionName,
		City:        resp.City,
		Lat:         resp.Lat,
		Lon:         resp.Lon,
	}, nil
}

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-alert-network/internal/platform/httpclient"
	"pet-alert-network/internal/ports/geocoding"
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org"

	// Nominatim rechaza requests sin User-Agent identificable.
	defaultUserAgent = "pet-alert-network/1.0"

	providerTimeout = 4 * time.Second
)

// NominatimClient hace reverse geocoding contra la API pública de
// Nominatim (OpenStreetMap).
type NominatimClient struct {
	http *httpclient.Client
	name string
}

func NewNominatim() *NominatimClient {
	c, _ := httpclient.NewWithBaseURL(nominatimBaseURL, providerTimeout)
	c.UserAgent = defaultUserAgent
	return &NominatimClient{http: c, name: "nominatim"}
}

// NewNominatimWithClient permite inyectar el client (tests).
func NewNominatimWithClient(c *httpclient.Client) *NominatimClient {
	return &NominatimClient{http: c, name: "nominatim"}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *NominatimClient) Name() string { return n.name }

func (n *NominatimClient) ReverseGeocode(ctx context.Context, lat, lon float64) (geocoding.Result, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")

	var resp nominatimResponse
	err := n.http.DoJSON(ctx, "GET", "/reverse?"+q.Encode(), nil, nil, &resp)
	if err != nil {
		return geocoding.Result{}, fmt.Errorf("nominatim reverse: %w", err)
	}
	if resp.Error != "" {
		return geocoding.Result{}, fmt.Errorf("nominatim reverse: %s", resp.Error)
	}
	if strings.TrimSpace(resp.DisplayName) == "" {
		return geocoding.Result{}, errors.New("nominatim reverse: empty display_name")
	}

	return geocoding.Result{
		FormattedAddress: resp.DisplayName,
		Provider:         n.name,
	}, nil
}

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pet-alert-network/internal/platform/httpclient"
	"pet-alert-network/internal/ports/geocoding"
)

// HTTPProvider consulta un servicio de geocoding propio/configurado.
// Espera un endpoint GET /reverse?lat=..&lon=.. que responde
// {"formatted_address": "..."}.
type HTTPProvider struct {
	http   *httpclient.Client
	apiKey string
	name   string
}

// NewHTTPProvider crea el proveedor primario. baseURL vacío => nil
// (el chain lo omite).
func NewHTTPProvider(baseURL, apiKey string) (*HTTPProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, nil
	}
	c, err := httpclient.NewWithBaseURL(baseURL, providerTimeout)
	if err != nil {
		return nil, fmt.Errorf("geocoding provider: %w", err)
	}
	return &HTTPProvider{http: c, apiKey: apiKey, name: "primary"}, nil
}

type reverseResponse struct {
	FormattedAddress string `json:"formatted_address"`
}

func (p *HTTPProvider) Name() string { return p.name }

func (p *HTTPProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (geocoding.Result, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}

	var resp reverseResponse
	err := p.http.DoJSON(ctx, "GET", "/reverse?"+q.Encode(), nil, nil, &resp)
	if err != nil {
		return geocoding.Result{}, fmt.Errorf("geocoding reverse: %w", err)
	}
	if strings.TrimSpace(resp.FormattedAddress) == "" {
		return geocoding.Result{}, errors.New("geocoding reverse: empty address")
	}

	return geocoding.Result{
		FormattedAddress: resp.FormattedAddress,
		Provider:         p.name,
	}, nil
}

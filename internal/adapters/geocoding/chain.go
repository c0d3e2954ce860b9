package geocoding

import (
	"context"
	"fmt"

	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/geocoding"
)

// ProviderOffline marca el resultado degradado cuando ningún proveedor
// respondió. El caller no debe persistirlo como dirección definitiva.
const ProviderOffline = "offline"

// Provider es un geocoder con nombre, encadenable.
type Provider interface {
	geocoding.Geocoder
	Name() string
}

// Chain intenta cada proveedor en orden y degrada a "Lat: .., Lng: .."
// si todos fallan. Nunca retorna error: siempre hay un resultado
// utilizable para armar el mensaje de alerta.
type Chain struct {
	providers []Provider
	log       logger.Logger
}

func NewChain(log logger.Logger, providers ...Provider) *Chain {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		ps = append(ps, p)
	}
	return &Chain{providers: ps, log: log}
}

func (c *Chain) ReverseGeocode(ctx context.Context, lat, lon float64) (geocoding.Result, error) {
	for _, p := range c.providers {
		res, err := p.ReverseGeocode(ctx, lat, lon)
		if err == nil {
			return res, nil
		}
		if c.log != nil {
			c.log.Warn("geocoding provider failed", map[string]any{
				"provider": p.Name(),
				"error":    err.Error(),
			})
		}
		// Si el contexto murió, no tiene sentido seguir probando.
		if ctx.Err() != nil {
			break
		}
	}

	return geocoding.Result{
		FormattedAddress: fmt.Sprintf("Lat: %v, Lng: %v", lat, lon),
		Provider:         ProviderOffline,
	}, nil
}

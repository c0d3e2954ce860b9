package geocoding

import "context"

// Result es la respuesta de una geocodificación inversa.
type Result struct {
	FormattedAddress string
	// Provider identifica qué proveedor de la cadena respondió
	// (incluye "offline" para el fallback degradado).
	Provider string
}

// Geocoder resuelve una dirección legible a partir de coordenadas.
// Las implementaciones deben degradar internamente: el caller nunca
// recibe error mientras quede un fallback disponible.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (Result, error)
}

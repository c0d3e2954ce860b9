package geo

import (
	"errors"
	"math"
)

// EarthRadiusMeters es el radio esférico usado por la fórmula de haversine.
const EarthRadiusMeters = 6371000.0

var ErrInvalidCoordinate = errors.New("coordinate out of range")

// ValidateCoordinate valida rangos: lat en [-90,90], lon en [-180,180].
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 {
		return ErrInvalidCoordinate
	}
	if lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// DistanceMeters calcula la distancia de círculo máximo (haversine)
// entre dos puntos en grados. Asume coordenadas ya validadas.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

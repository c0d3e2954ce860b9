package geo

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
)

// Distancia de referencia: ángulo s2 entre LatLngs escalado al mismo radio.
func s2Distance(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * EarthRadiusMeters
}

func TestDistanceMeters_MatchesReference(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"oro verde cercano", -31.7833, -60.5167, -31.7900, -60.5200},
		{"parana a buenos aires", -31.7319, -60.5238, -34.6037, -58.3816},
		{"ecuador", 0, 0, 0, 90},
		{"polo a polo", 90, 0, -90, 0},
		{"antimeridiano", 10, 179.9, 10, -179.9},
		{"larga distancia", 51.5074, -0.1278, -33.8688, 151.2093},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceMeters(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			want := s2Distance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			if math.Abs(got-want) > 1.0 {
				t.Fatalf("distance mismatch: got %.3f m, reference %.3f m", got, want)
			}
		})
	}
}

func TestDistanceMeters_SymmetryAndZero(t *testing.T) {
	pairs := [][4]float64{
		{-31.7833, -60.5167, -31.7900, -60.5200},
		{45.0, 7.0, -12.5, 130.2},
		{0.0001, -0.0001, -0.0001, 0.0001},
	}

	for _, p := range pairs {
		ab := DistanceMeters(p[0], p[1], p[2], p[3])
		ba := DistanceMeters(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Fatalf("asymmetric distance: %.9f vs %.9f", ab, ba)
		}

		self := DistanceMeters(p[0], p[1], p[0], p[1])
		if math.Abs(self) > 1e-6 {
			t.Fatalf("distance to self should be 0, got %.9f", self)
		}
	}
}

func TestDistanceMeters_KnownValue(t *testing.T) {
	// Escenario de referencia: dos puntos en Oro Verde, Entre Ríos.
	d := DistanceMeters(-31.7833, -60.5167, -31.7900, -60.5200)
	if d < 850 || d > 900 {
		t.Fatalf("expected ~850-900 m, got %.1f m", d)
	}
}

func TestValidateCoordinate(t *testing.T) {
	valid := [][2]float64{
		{0, 0},
		{-90, -180},
		{90, 180},
		{-31.7833, -60.5167},
	}
	for _, c := range valid {
		if err := ValidateCoordinate(c[0], c[1]); err != nil {
			t.Fatalf("ValidateCoordinate(%v, %v) = %v, want nil", c[0], c[1], err)
		}
	}

	invalid := [][2]float64{
		{-90.0001, 0},
		{90.0001, 0},
		{0, -180.0001},
		{0, 180.0001},
		{math.NaN(), 0},
		{0, math.NaN()},
	}
	for _, c := range invalid {
		if err := ValidateCoordinate(c[0], c[1]); err != ErrInvalidCoordinate {
			t.Fatalf("ValidateCoordinate(%v, %v) = %v, want ErrInvalidCoordinate", c[0], c[1], err)
		}
	}
}

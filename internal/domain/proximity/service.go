package proximity

import (
	"context"
	"sort"

	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/reports"
	"pet-alert-network/internal/platform/geo"
)

// DefaultRadiusKm se usa cuando el caller no manda radio.
const DefaultRadiusKm = 5.0

// Match es un reporte activo dentro del radio, con su distancia al
// punto de consulta.
type Match struct {
	Report         reports.Report
	Pet            pets.Pet
	Location       reports.Location
	DistanceMeters float64
}

// ActiveSource es la vista de solo lectura de reportes activos.
type ActiveSource interface {
	ListActive(ctx context.Context) ([]reports.ActiveReport, error)
}

type Service struct {
	source ActiveSource
}

func NewService(source ActiveSource) *Service {
	return &Service{source: source}
}

// FindNearby ordena los reportes activos dentro del radio por distancia
// ascendente; empates por fecha de creación del reporte (el más viejo
// primero). Scan lineal completo: el working set son reportes activos,
// que se espera chico; si crece, un índice espacial reemplaza esto sin
// cambiar el contrato.
func (s *Service) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]Match, error) {
	if err := geo.ValidateCoordinate(lat, lon); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	maxMeters := radiusKm * 1000

	active, err := s.source.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0)
	for _, ar := range active {
		d := geo.DistanceMeters(lat, lon, ar.Location.Lat, ar.Location.Lon)
		if d > maxMeters {
			continue
		}
		out = append(out, Match{
			Report:         ar.Report,
			Pet:            ar.Pet,
			Location:       ar.Location,
			DistanceMeters: d,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].Report.CreatedAt.Before(out[j].Report.CreatedAt)
	})

	return out, nil
}

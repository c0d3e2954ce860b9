package reports

import "context"

type Repository interface {
	CreateLocation(ctx context.Context, loc Location) error
	GetLocation(ctx context.Context, id string) (Location, error)
	// UpdateLocationDescription reemplaza solo la descripción textual;
	// las coordenadas son inmutables.
	UpdateLocationDescription(ctx context.Context, id, description string) error

	CreateReport(ctx context.Context, r Report) error
	UpdateReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (Report, error)

	// ActiveByPet devuelve el reporte activo del pet, si existe.
	ActiveByPet(ctx context.Context, petID string) (Report, bool, error)
	// LatestByPet devuelve el reporte más reciente del pet (cualquier estado).
	LatestByPet(ctx context.Context, petID string) (Report, bool, error)
	// ListActive devuelve todos los reportes activos, sin orden garantizado.
	ListActive(ctx context.Context) ([]Report, error)
}

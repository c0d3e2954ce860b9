package reports

import "time"

// Kind define el tipo de reporte.
type Kind string

const (
	KindLost    Kind = "lost"
	KindFound   Kind = "found"
	KindSighted Kind = "sighted"
)

// Lifecycle define el ciclo de vida de un reporte.
type Lifecycle string

const (
	LifecycleActive    Lifecycle = "active"
	LifecycleResolved  Lifecycle = "resolved"
	LifecycleCancelled Lifecycle = "cancelled"
)

// Location es una ubicación geográfica inmutable. La descripción puede
// enriquecerse después vía geocodificación inversa, pero las coordenadas
// no cambian.
type Location struct {
	ID string

	Lat float64
	Lon float64

	Description     string
	PrecisionMeters *int

	CreatedAt time.Time
}

// Report es un reporte de mascota perdida/encontrada/avistada.
// Invariante: a lo sumo un reporte activo por mascota.
type Report struct {
	ID             string
	PetID          string
	ReporterUserID string

	Kind       Kind
	Lifecycle  Lifecycle
	LocationID string

	Description string

	ResolvedAt *time.Time
	MatchCount int

	CreatedAt time.Time
}

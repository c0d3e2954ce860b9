package reports

import (
	"context"
	"time"

	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/users"
)

// ActivationEvent se emite cuando un reporte de pérdida queda activo.
// Lleva todo lo que necesita el fan-out para no releer estado.
type ActivationEvent struct {
	Report   Report
	Pet      pets.Pet
	Owner    users.User
	Location Location
	At       time.Time
}

// ResolutionEvent se emite cuando el dueño recupera la mascota y el
// reporte activo pasa a resolved.
type ResolutionEvent struct {
	Report Report
	Pet    pets.Pet
	At     time.Time
}

// AlertSink consume los eventos del ciclo de vida de reportes. La
// llamada es sincrónica: el filing espera a que el fan-out termine,
// pero un error del sink no voltea la operación (el reporte ya existe).
type AlertSink interface {
	ReportActivated(ctx context.Context, ev ActivationEvent) error
	ReportResolved(ctx context.Context, ev ResolutionEvent) error
}

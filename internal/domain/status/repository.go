package status

import "context"

type Repository interface {
	// Append agrega un registro al historial y actualiza el puntero
	// "current" del pet en la misma operación.
	Append(ctx context.Context, rec StatusRecord) error
	// Current devuelve el registro más reciente del pet, si existe.
	Current(ctx context.Context, petID string) (StatusRecord, bool, error)
	// History devuelve el historial completo, más reciente primero.
	History(ctx context.Context, petID string) ([]StatusRecord, error)
}

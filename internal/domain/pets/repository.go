package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// GetByChip devuelve la mascota con ese chip, si existe.
	GetByChip(ctx context.Context, chip string) (Pet, bool, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
}

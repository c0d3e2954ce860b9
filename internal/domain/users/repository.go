package users

import "context"

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// ListActiveByRole devuelve usuarios activos con un rol, hasta limit.
	ListActiveByRole(ctx context.Context, role Role, limit int) ([]User, error)
}

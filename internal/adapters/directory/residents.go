package directory

import (
	"context"
	"fmt"

	"pet-alert-network/internal/domain/users"
	"pet-alert-network/internal/ports/directory"
)

// maxRecipients acota el fan-out por alerta.
const maxRecipients = 10

// ResidentsDirectory implementa directory.RecipientDirectory sobre el
// repositorio de usuarios: vecinos (role=resident) activos, hasta
// maxRecipients.
type ResidentsDirectory struct {
	repo users.Repository
}

func NewResidentsDirectory(repo users.Repository) *ResidentsDirectory {
	return &ResidentsDirectory{repo: repo}
}

func (d *ResidentsDirectory) ListCandidateRecipients(ctx context.Context) ([]directory.Recipient, error) {
	us, err := d.repo.ListActiveByRole(ctx, users.RoleResident, maxRecipients)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}

	out := make([]directory.Recipient, 0, len(us))
	for _, u := range us {
		out = append(out, directory.Recipient{
			UserID:    u.ID,
			FirstName: u.FirstName,
			Email:     u.Email,
		})
	}
	return out, nil
}

package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-alert-network/internal/domain/status"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotOwner     = errors.New("not the pet owner")
	ErrChipTaken    = errors.New("chip already registered")
)

type Service struct {
	repo   Repository
	ledger *status.Ledger
	now    func() time.Time
}

func NewService(repo Repository, ledger *status.Ledger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name     string
	Species  string
	Breed    string
	PhotoURL string
	Size     string
	Colors   string
	Chip     string
	Notes    string
}

// Create registra la mascota y deja asentado su estado inicial "active"
// en el ledger.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	breed := strings.TrimSpace(in.Breed)
	photo := strings.TrimSpace(in.PhotoURL)
	colors := strings.TrimSpace(in.Colors)
	if name == "" || breed == "" || photo == "" || colors == "" {
		return Pet{}, ErrInvalidInput
	}

	species, err := parseSpecies(in.Species)
	if err != nil {
		return Pet{}, err
	}
	size, err := parseSize(in.Size)
	if err != nil {
		return Pet{}, err
	}

	chip := strings.TrimSpace(in.Chip)
	if chip != "" {
		_, exists, err := s.repo.GetByChip(ctx, chip)
		if err != nil {
			return Pet{}, err
		}
		if exists {
			return Pet{}, ErrChipTaken
		}
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Species:     species,
		Breed:       breed,
		PhotoURL:    photo,
		Size:        size,
		Colors:      colors,
		Chip:        chip,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}

	if _, err := s.ledger.Append(ctx, p.ID, status.TagActive, "Registro inicial", now); err != nil {
		return Pet{}, err
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateProfileInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string
	Breed    *string
	PhotoURL *string
	Size     *string
	Colors   *string
	Notes    *string
}

// UpdateProfile edita campos descriptivos. species y chip no se tocan
// (reglas de identificación); solo el dueño puede editar.
func (s *Service) UpdateProfile(ctx context.Context, petID, actorUserID string, in UpdateProfileInput) (Pet, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || strings.TrimSpace(actorUserID) == "" {
		return Pet{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != actorUserID {
		return Pet{}, ErrNotOwner
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = v
	}
	if in.Breed != nil {
		v := strings.TrimSpace(*in.Breed)
		if v == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Breed = v
	}
	if in.PhotoURL != nil {
		v := strings.TrimSpace(*in.PhotoURL)
		if v == "" {
			return Pet{}, ErrInvalidInput
		}
		p.PhotoURL = v
	}
	if in.Size != nil {
		size, err := parseSize(*in.Size)
		if err != nil {
			return Pet{}, err
		}
		p.Size = size
	}
	if in.Colors != nil {
		v := strings.TrimSpace(*in.Colors)
		if v == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Colors = v
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func parseSpecies(s string) (Species, error) {
	switch Species(strings.ToLower(strings.TrimSpace(s))) {
	case SpeciesDog:
		return SpeciesDog, nil
	case SpeciesCat:
		return SpeciesCat, nil
	case SpeciesOther:
		return SpeciesOther, nil
	default:
		return "", ErrInvalidInput
	}
}

func parseSize(s string) (Size, error) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeMedium:
		return SizeMedium, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", ErrInvalidInput
	}
}

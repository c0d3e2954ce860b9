package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-alert-network/internal/domain/status"
)

// statusRepo guarda el log append-only por pet más un puntero al
// registro vigente, para no re-escanear el historial en cada lectura.
type statusRepo struct {
	mu      sync.RWMutex
	byPet   map[string][]status.StatusRecord
	current map[string]status.StatusRecord
}

func NewStatusRepo() status.Repository {
	return &statusRepo{
		byPet:   make(map[string][]status.StatusRecord),
		current: make(map[string]status.StatusRecord),
	}
}

func (r *statusRepo) Append(ctx context.Context, rec status.StatusRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.PetID) == "" {
		return errors.New("status record id and pet id required")
	}

	r.byPet[rec.PetID] = append(r.byPet[rec.PetID], rec)
	r.current[rec.PetID] = rec
	return nil
}

func (r *statusRepo) Current(ctx context.Context, petID string) (status.StatusRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.current[petID]
	if !ok {
		return status.StatusRecord{}, false, nil
	}
	return rec, true, nil
}

func (r *statusRepo) History(ctx context.Context, petID string) ([]status.StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hist := r.byPet[petID]
	out := make([]status.StatusRecord, 0, len(hist))
	for i := len(hist) - 1; i >= 0; i-- {
		out = append(out, hist[i])
	}
	return out, nil
}

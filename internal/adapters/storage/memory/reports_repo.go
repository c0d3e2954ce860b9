package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-alert-network/internal/domain/reports"
)

type reportsRepo struct {
	mu          sync.RWMutex
	reports     map[string]reports.Report
	locations   map[string]reports.Location
	activeByPet map[string]string // petID -> reportID activo
}

func NewReportsRepo() reports.Repository {
	return &reportsRepo{
		reports:     make(map[string]reports.Report),
		locations:   make(map[string]reports.Location),
		activeByPet: make(map[string]string),
	}
}

func (r *reportsRepo) CreateLocation(ctx context.Context, loc reports.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(loc.ID) == "" {
		return errors.New("location id required")
	}
	if _, exists := r.locations[loc.ID]; exists {
		return errors.New("location already exists")
	}
	r.locations[loc.ID] = loc
	return nil
}

func (r *reportsRepo) GetLocation(ctx context.Context, id string) (reports.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[id]
	if !ok {
		return reports.Location{}, ErrNotFound
	}
	return loc, nil
}

func (r *reportsRepo) UpdateLocationDescription(ctx context.Context, id, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, ok := r.locations[id]
	if !ok {
		return ErrNotFound
	}
	loc.Description = description
	r.locations[id] = loc
	return nil
}

func (r *reportsRepo) CreateReport(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.reports[rep.ID]; exists {
		return errors.New("report already exists")
	}
	if rep.Lifecycle == reports.LifecycleActive {
		if _, taken := r.activeByPet[rep.PetID]; taken {
			return errors.New("pet already has an active report")
		}
		r.activeByPet[rep.PetID] = rep.ID
	}
	r.reports[rep.ID] = rep
	return nil
}

func (r *reportsRepo) UpdateReport(ctx context.Context, rep reports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.reports[rep.ID]
	if !exists {
		return ErrNotFound
	}

	// Mantener el índice de activos consistente con el lifecycle.
	if old.Lifecycle == reports.LifecycleActive && rep.Lifecycle != reports.LifecycleActive {
		delete(r.activeByPet, rep.PetID)
	}
	if old.Lifecycle != reports.LifecycleActive && rep.Lifecycle == reports.LifecycleActive {
		if _, taken := r.activeByPet[rep.PetID]; taken {
			return errors.New("pet already has an active report")
		}
		r.activeByPet[rep.PetID] = rep.ID
	}

	r.reports[rep.ID] = rep
	return nil
}

func (r *reportsRepo) GetReport(ctx context.Context, id string) (reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok {
		return reports.Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *reportsRepo) ActiveByPet(ctx context.Context, petID string) (reports.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.activeByPet[petID]
	if !ok {
		return reports.Report{}, false, nil
	}
	return r.reports[id], true, nil
}

func (r *reportsRepo) LatestByPet(ctx context.Context, petID string) (reports.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest reports.Report
	has := false
	for _, rep := range r.reports {
		if rep.PetID != petID {
			continue
		}
		if !has || rep.CreatedAt.After(latest.CreatedAt) {
			latest = rep
			has = true
		}
	}
	return latest, has, nil
}

func (r *reportsRepo) ListActive(ctx context.Context) ([]reports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reports.Report, 0, len(r.activeByPet))
	for _, id := range r.activeByPet {
		out = append(out, r.reports[id])
	}
	return out, nil
}

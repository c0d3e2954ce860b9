package pets

import (
	"context"
	"errors"
	"testing"

	"pet-alert-network/internal/domain/status"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, errors.New("not found")
	}
	return p, nil
}

func (r *testRepo) GetByChip(ctx context.Context, chip string) (Pet, bool, error) {
	for _, p := range r.byID {
		if p.Chip == chip {
			return p, true, nil
		}
	}
	return Pet{}, false, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errors.New("not found")
	}
	r.byID[p.ID] = p
	return nil
}

type testStatusRepo struct {
	byPet map[string][]status.StatusRecord
}

func newTestStatusRepo() *testStatusRepo {
	return &testStatusRepo{byPet: map[string][]status.StatusRecord{}}
}

func (r *testStatusRepo) Append(ctx context.Context, rec status.StatusRecord) error {
	r.byPet[rec.PetID] = append(r.byPet[rec.PetID], rec)
	return nil
}

func (r *testStatusRepo) Current(ctx context.Context, petID string) (status.StatusRecord, bool, error) {
	hist := r.byPet[petID]
	if len(hist) == 0 {
		return status.StatusRecord{}, false, nil
	}
	return hist[len(hist)-1], true, nil
}

func (r *testStatusRepo) History(ctx context.Context, petID string) ([]status.StatusRecord, error) {
	return r.byPet[petID], nil
}

func newTestService() (*Service, *testStatusRepo) {
	statusRepo := newTestStatusRepo()
	ledger := status.NewLedger(statusRepo, nil)
	return NewService(newTestRepo(), ledger), statusRepo
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:     "Rocky",
		Species:  "dog",
		Breed:    "Mestizo",
		PhotoURL: "https://example.com/rocky.jpg",
		Size:     "medium",
		Colors:   "marrón y blanco",
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_AppendsInitialStatus(t *testing.T) {
	svc, statusRepo := newTestService()

	p, err := svc.Create(context.Background(), "owner-1", validCreateInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID == "" || p.OwnerUserID != "owner-1" {
		t.Fatalf("unexpected pet: %#v", p)
	}

	rec, has, err := statusRepo.Current(context.Background(), p.ID)
	if err != nil || !has {
		t.Fatalf("expected initial status, has=%v err=%v", has, err)
	}
	if rec.Tag != status.TagActive {
		t.Fatalf("expected active initial status, got %s", rec.Tag)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc, _ := newTestService()

	in := validCreateInput()
	in.Name = "   "
	if _, err := svc.Create(context.Background(), "owner-1", in); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}

	in = validCreateInput()
	in.Species = "dragon"
	if _, err := svc.Create(context.Background(), "owner-1", in); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown species, got %v", err)
	}

	in = validCreateInput()
	in.Size = "gigantic"
	if _, err := svc.Create(context.Background(), "owner-1", in); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown size, got %v", err)
	}
}

func TestCreate_RejectsDuplicateChip(t *testing.T) {
	svc, _ := newTestService()

	in := validCreateInput()
	in.Chip = "CHIP-001"
	if _, err := svc.Create(context.Background(), "owner-1", in); err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}

	in2 := validCreateInput()
	in2.Name = "Luna"
	in2.Chip = "CHIP-001"
	if _, err := svc.Create(context.Background(), "owner-2", in2); err != ErrChipTaken {
		t.Fatalf("expected ErrChipTaken, got %v", err)
	}
}

func TestUpdateProfile_OwnerOnly(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), "owner-1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	name := "Rocco"
	if _, err := svc.UpdateProfile(context.Background(), p.ID, "intruder", UpdateProfileInput{Name: &name}); err != ErrNotOwner {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestUpdateProfile_PatchSemantics(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), "owner-1", validCreateInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	colors := "negro"
	updated, err := svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{Colors: &colors})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}

	// Solo colors cambia; el resto queda intacto.
	if updated.Colors != "negro" {
		t.Fatalf("expected colors updated, got %q", updated.Colors)
	}
	if updated.Name != p.Name || updated.Breed != p.Breed || updated.Species != p.Species {
		t.Fatalf("untouched fields changed: %#v", updated)
	}

	empty := "  "
	if _, err := svc.UpdateProfile(context.Background(), p.ID, "owner-1", UpdateProfileInput{Name: &empty}); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

package reports_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "pet-alert-network/internal/adapters/storage/memory"
	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/reports"
	"pet-alert-network/internal/domain/status"
	"pet-alert-network/internal/domain/users"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/geocoding"
)

// -------------------------
// Test doubles
// -------------------------

type sinkRecorder struct {
	mu        sync.Mutex
	activated []reports.ActivationEvent
	resolved  []reports.ResolutionEvent
	fail      error
}

func (s *sinkRecorder) ReportActivated(ctx context.Context, ev reports.ActivationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.activated = append(s.activated, ev)
	return nil
}

func (s *sinkRecorder) ReportResolved(ctx context.Context, ev reports.ResolutionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.resolved = append(s.resolved, ev)
	return nil
}

func (s *sinkRecorder) activatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activated)
}

type stubGeocoder struct {
	result geocoding.Result
	err    error
	calls  int
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (geocoding.Result, error) {
	g.calls++
	return g.result, g.err
}

type fixture struct {
	svc      *reports.Service
	repo     reports.Repository
	ledger   *status.Ledger
	sink     *sinkRecorder
	geocoder *stubGeocoder
	owner    users.User
	pet      pets.Pet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	usersRepo := mem.NewUsersRepo()
	petsRepo := mem.NewPetsRepo()
	statusRepo := mem.NewStatusRepo()
	reportsRepo := mem.NewReportsRepo()

	ledger := status.NewLedger(statusRepo, nil)
	sink := &sinkRecorder{}
	geocoder := &stubGeocoder{result: geocoding.Result{FormattedAddress: "Calle Falsa 123", Provider: "primary"}}
	log := logger.New(logger.Options{Level: logger.Error})

	usersSvc := users.NewService(usersRepo)
	owner, err := usersSvc.Register(context.Background(), users.RegisterInput{
		FirstName: "Fermín",
		Email:     "fermin@example.com",
		Phone:     "111-2222",
		Role:      users.RoleOwner,
	})
	require.NoError(t, err)

	petsSvc := pets.NewService(petsRepo, ledger)
	pet, err := petsSvc.Create(context.Background(), owner.ID, pets.CreateInput{
		Name:     "Rocky",
		Species:  "dog",
		Breed:    "Mestizo",
		PhotoURL: "https://example.com/rocky.jpg",
		Size:     "medium",
		Colors:   "marrón",
	})
	require.NoError(t, err)

	svc := reports.NewService(reportsRepo, petsRepo, usersRepo, ledger, sink, geocoder, log)

	return &fixture{
		svc:      svc,
		repo:     reportsRepo,
		ledger:   ledger,
		sink:     sink,
		geocoder: geocoder,
		owner:    owner,
		pet:      pet,
	}
}

func lostInput() reports.LostInput {
	return reports.LostInput{
		Lat:         -31.82,
		Lon:         -60.51,
		Description: "Se escapó del patio",
	}
}

// -------------------------
// Tests
// -------------------------

func TestFileLost_ActivatesReportAndAlert(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	assert.Equal(t, reports.KindLost, report.Kind)
	assert.Equal(t, reports.LifecycleActive, report.Lifecycle)
	assert.Equal(t, f.pet.ID, report.PetID)

	// Estado del pet pasa a lost.
	cur, has, err := f.ledger.Current(context.Background(), f.pet.ID)
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, status.TagLost, cur.Tag)

	// El evento de activación lleva el payload completo.
	require.Len(t, f.sink.activated, 1)
	ev := f.sink.activated[0]
	assert.Equal(t, report.ID, ev.Report.ID)
	assert.Equal(t, f.pet.Name, ev.Pet.Name)
	assert.Equal(t, f.owner.Email, ev.Owner.Email)
	require.NotNil(t, ev.Location.PrecisionMeters)
	assert.Equal(t, 50, *ev.Location.PrecisionMeters)
}

func TestFileLost_RejectsSecondActiveReport(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	_, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	_, err = f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at.Add(time.Hour))
	assert.ErrorIs(t, err, reports.ErrAlreadyLost)

	// Un solo evento de activación: el conflicto no dispara alertas.
	assert.Len(t, f.sink.activated, 1)
}

func TestFileLost_RejectedTimestampLeavesNoState(t *testing.T) {
	f := newFixture(t)

	// El alta de la mascota asentó el estado inicial "ahora": un reporte
	// fechado antes debe rebotar contra el ledger.
	_, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), time.Now().Add(-2*time.Hour))
	require.ErrorIs(t, err, status.ErrOutOfOrderTimestamp)

	// El rechazo no deja nada a medias: ni reporte activo, ni listado,
	// ni evento, y el estado sigue siendo el inicial.
	_, active, repoErr := f.repo.ActiveByPet(context.Background(), f.pet.ID)
	require.NoError(t, repoErr)
	assert.False(t, active)

	items, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, f.sink.activated)

	cur, has, err := f.ledger.Current(context.Background(), f.pet.ID)
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, status.TagActive, cur.Tag)

	// Y un reporte bien fechado sigue siendo posible.
	_, err = f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), time.Now())
	require.NoError(t, err)
	assert.Len(t, f.sink.activated, 1)
}

func TestFileLost_ConcurrentFilersSingleWinner(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	const filers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < filers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, reports.ErrAlreadyLost):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// El lock por pet serializa el check-then-act: gana exactamente uno.
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, filers-1, conflicts)
	assert.Equal(t, 1, f.sink.activatedCount())

	items, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFileLost_Validation(t *testing.T) {
	f := newFixture(t)
	at := time.Now()

	in := lostInput()
	in.Lat = 123.0
	_, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, in, at)
	assert.ErrorIs(t, err, reports.ErrInvalidInput)

	in = lostInput()
	in.Description = "  "
	_, err = f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, in, at)
	assert.ErrorIs(t, err, reports.ErrInvalidInput)

	_, err = f.svc.FileLost(context.Background(), f.pet.ID, "stranger", lostInput(), at)
	assert.ErrorIs(t, err, reports.ErrNotOwner)

	_, err = f.svc.FileLost(context.Background(), "nope", f.owner.ID, lostInput(), at)
	assert.ErrorIs(t, err, reports.ErrPetNotFound)
}

func TestFileLost_SinkFailureDoesNotUndoFiling(t *testing.T) {
	f := newFixture(t)
	f.sink.fail = errors.New("directory down")
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	// El reporte quedó asentado aunque el fan-out falló.
	got, active, err := f.repo.ActiveByPet(context.Background(), f.pet.ID)
	require.NoError(t, err)
	require.True(t, active)
	assert.Equal(t, report.ID, got.ID)
}

func TestFileFound_ResolvesActiveReport(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	foundAt := at.Add(2 * time.Hour)
	pet, err := f.svc.FileFound(context.Background(), f.pet.ID, f.owner.ID, foundAt)
	require.NoError(t, err)
	assert.Equal(t, f.pet.ID, pet.ID)

	// Estado recovered, reporte resuelto.
	cur, has, err := f.ledger.Current(context.Background(), f.pet.ID)
	require.NoError(t, err)
	require.True(t, has)
	assert.Equal(t, status.TagRecovered, cur.Tag)

	resolved, err := f.repo.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, reports.LifecycleResolved, resolved.Lifecycle)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, foundAt, *resolved.ResolvedAt)

	require.Len(t, f.sink.resolved, 1)
	assert.Equal(t, report.ID, f.sink.resolved[0].Report.ID)

	// Segunda vez: ya está recuperada.
	_, err = f.svc.FileFound(context.Background(), f.pet.ID, f.owner.ID, foundAt.Add(time.Hour))
	assert.ErrorIs(t, err, reports.ErrAlreadyRecovered)
}

func TestFileFound_WithoutActiveReport(t *testing.T) {
	f := newFixture(t)

	// Nunca se reportó perdida: el estado cambia igual, sin evento.
	_, err := f.svc.FileFound(context.Background(), f.pet.ID, f.owner.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, f.sink.resolved)
}

func TestLatestLocation_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	_, _, err := f.svc.LatestLocation(context.Background(), f.pet.ID, f.owner.ID)
	assert.ErrorIs(t, err, reports.ErrNoReports)

	in := lostInput()
	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, in, at)
	require.NoError(t, err)

	got, loc, err := f.svc.LatestLocation(context.Background(), f.pet.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, in.Lat, loc.Lat)
	assert.Equal(t, in.Lon, loc.Lon)

	_, _, err = f.svc.LatestLocation(context.Background(), f.pet.ID, "stranger")
	assert.ErrorIs(t, err, reports.ErrNotOwner)
}

func TestListActive_JoinsPetAndLocation(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	_, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	items, err := f.svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.pet.Name, items[0].Pet.Name)
	assert.Equal(t, lostInput().Lat, items[0].Location.Lat)
}

func TestResolveAddress_EnrichesLazily(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	loc, err := f.svc.ResolveAddress(context.Background(), report.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Calle Falsa 123", loc.Description)
	assert.Equal(t, 1, f.geocoder.calls)

	// Segunda consulta: la dirección ya está persistida, no re-geocodifica.
	loc, err = f.svc.ResolveAddress(context.Background(), report.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Calle Falsa 123", loc.Description)
	assert.Equal(t, 1, f.geocoder.calls)
}

func TestResolveAddress_OfflineFallbackNotPersisted(t *testing.T) {
	f := newFixture(t)
	f.geocoder.result = geocoding.Result{FormattedAddress: "Lat: -31.82, Lng: -60.51", Provider: "offline"}
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

	report, err := f.svc.FileLost(context.Background(), f.pet.ID, f.owner.ID, lostInput(), at)
	require.NoError(t, err)

	loc, err := f.svc.ResolveAddress(context.Background(), report.LocationID)
	require.NoError(t, err)
	assert.Equal(t, "Lat: -31.82, Lng: -60.51", loc.Description)

	// No persistido: la próxima consulta vuelve a intentar.
	_, err = f.svc.ResolveAddress(context.Background(), report.LocationID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.geocoder.calls)
}

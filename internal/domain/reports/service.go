package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/status"
	"pet-alert-network/internal/domain/users"
	"pet-alert-network/internal/platform/geo"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/geocoding"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrPetNotFound      = errors.New("pet not found")
	ErrNotOwner         = errors.New("not the pet owner")
	ErrAlreadyLost      = errors.New("pet already reported lost")
	ErrAlreadyRecovered = errors.New("pet already recovered")
	ErrNoReports        = errors.New("no reports for pet")
	ErrNotFound         = errors.New("not found")
)

const defaultPrecisionMeters = 50

type Service struct {
	repo     Repository
	pets     pets.Repository
	users    users.Repository
	ledger   *status.Ledger
	sink     AlertSink
	geocoder geocoding.Geocoder
	log      logger.Logger

	locks *petLocks
	now   func() time.Time
}

func NewService(
	repo Repository,
	petsRepo pets.Repository,
	usersRepo users.Repository,
	ledger *status.Ledger,
	sink AlertSink,
	geocoder geocoding.Geocoder,
	log logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		pets:     petsRepo,
		users:    usersRepo,
		ledger:   ledger,
		sink:     sink,
		geocoder: geocoder,
		log:      log,
		locks:    newPetLocks(),
		now:      time.Now,
	}
}

type LostInput struct {
	Lat              float64
	Lon              float64
	PlaceDescription string
	Description      string
}

// FileLost registra un reporte de pérdida (UC6) y dispara la alerta
// (UC22). Toda la secuencia check-then-act corre bajo el lock del pet:
// las validaciones y mutaciones son todo-o-nada; recién después se
// emite el evento de activación.
func (s *Service) FileLost(ctx context.Context, petID, reporterUserID string, in LostInput, at time.Time) (Report, error) {
	petID = strings.TrimSpace(petID)
	reporterUserID = strings.TrimSpace(reporterUserID)
	if petID == "" || reporterUserID == "" {
		return Report{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Description) == "" {
		return Report{}, ErrInvalidInput
	}
	if err := geo.ValidateCoordinate(in.Lat, in.Lon); err != nil {
		return Report{}, ErrInvalidInput
	}
	if at.IsZero() {
		at = s.now()
	}

	lock := s.locks.forPet(petID)
	lock.Lock()

	ev, report, err := s.fileLostLocked(ctx, petID, reporterUserID, in, at)
	lock.Unlock()
	if err != nil {
		return Report{}, err
	}

	// Fan-out sincrónico. Un fallo acá no voltea el filing: el reporte
	// y el estado ya quedaron asentados.
	if err := s.sink.ReportActivated(ctx, ev); err != nil {
		s.log.Warn("alert fan-out failed", map[string]any{
			"report_id": report.ID,
			"pet_id":    petID,
			"error":     err.Error(),
		})
	}

	return report, nil
}

func (s *Service) fileLostLocked(ctx context.Context, petID, reporterUserID string, in LostInput, at time.Time) (ActivationEvent, Report, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return ActivationEvent{}, Report{}, ErrPetNotFound
	}
	if pet.OwnerUserID != reporterUserID {
		return ActivationEvent{}, Report{}, ErrNotOwner
	}

	cur, has, err := s.ledger.Current(ctx, petID)
	if err != nil {
		return ActivationEvent{}, Report{}, err
	}
	if has && cur.Tag == status.TagLost {
		return ActivationEvent{}, Report{}, ErrAlreadyLost
	}

	// a lo sumo un reporte activo por pet
	if _, active, err := s.repo.ActiveByPet(ctx, petID); err != nil {
		return ActivationEvent{}, Report{}, err
	} else if active {
		return ActivationEvent{}, Report{}, ErrAlreadyLost
	}

	// El asiento de estado corre al final; se valida acá para que un
	// rechazo (timestamp fuera de orden, transición prohibida) no deje
	// reporte ni ubicación a medias.
	if err := s.ledger.CanAppend(ctx, petID, status.TagLost, at); err != nil {
		return ActivationEvent{}, Report{}, err
	}

	precision := defaultPrecisionMeters
	loc := Location{
		ID:              uuid.NewString(),
		Lat:             in.Lat,
		Lon:             in.Lon,
		Description:     strings.TrimSpace(in.PlaceDescription),
		PrecisionMeters: &precision,
		CreatedAt:       at,
	}
	if err := s.repo.CreateLocation(ctx, loc); err != nil {
		return ActivationEvent{}, Report{}, err
	}

	report := Report{
		ID:             uuid.NewString(),
		PetID:          petID,
		ReporterUserID: reporterUserID,
		Kind:           KindLost,
		Lifecycle:      LifecycleActive,
		LocationID:     loc.ID,
		Description:    strings.TrimSpace(in.Description),
		MatchCount:     0,
		CreatedAt:      at,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return ActivationEvent{}, Report{}, err
	}

	if _, err := s.ledger.Append(ctx, petID, status.TagLost, "Reportado como perdido", at); err != nil {
		return ActivationEvent{}, Report{}, err
	}

	owner, err := s.users.GetByID(ctx, pet.OwnerUserID)
	if err != nil {
		// Sin contacto del dueño no se puede armar la alerta completa,
		// pero el reporte ya es válido; el fan-out usará lo que haya.
		s.log.Warn("owner lookup failed", map[string]any{
			"pet_id": petID,
			"error":  err.Error(),
		})
	}

	ev := ActivationEvent{
		Report:   report,
		Pet:      pet,
		Owner:    owner,
		Location: loc,
		At:       at,
	}
	return ev, report, nil
}

// FileFound registra que el dueño recuperó la mascota (UC7): asienta el
// estado recovered, resuelve el reporte activo si existe y emite el
// evento de resolución.
func (s *Service) FileFound(ctx context.Context, petID, reporterUserID string, at time.Time) (pets.Pet, error) {
	petID = strings.TrimSpace(petID)
	reporterUserID = strings.TrimSpace(reporterUserID)
	if petID == "" || reporterUserID == "" {
		return pets.Pet{}, ErrInvalidInput
	}
	if at.IsZero() {
		at = s.now()
	}

	lock := s.locks.forPet(petID)
	lock.Lock()

	pet, ev, resolved, err := s.fileFoundLocked(ctx, petID, reporterUserID, at)
	lock.Unlock()
	if err != nil {
		return pets.Pet{}, err
	}

	if resolved {
		if err := s.sink.ReportResolved(ctx, ev); err != nil {
			s.log.Warn("recovery alert failed", map[string]any{
				"report_id": ev.Report.ID,
				"pet_id":    petID,
				"error":     err.Error(),
			})
		}
	}

	return pet, nil
}

func (s *Service) fileFoundLocked(ctx context.Context, petID, reporterUserID string, at time.Time) (pets.Pet, ResolutionEvent, bool, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return pets.Pet{}, ResolutionEvent{}, false, ErrPetNotFound
	}
	if pet.OwnerUserID != reporterUserID {
		return pets.Pet{}, ResolutionEvent{}, false, ErrNotOwner
	}

	cur, has, err := s.ledger.Current(ctx, petID)
	if err != nil {
		return pets.Pet{}, ResolutionEvent{}, false, err
	}
	if has && cur.Tag == status.TagRecovered {
		return pets.Pet{}, ResolutionEvent{}, false, ErrAlreadyRecovered
	}

	if _, err := s.ledger.Append(ctx, petID, status.TagRecovered, "Reportado como encontrado por el dueño", at); err != nil {
		return pets.Pet{}, ResolutionEvent{}, false, err
	}

	active, has, err := s.repo.ActiveByPet(ctx, petID)
	if err != nil {
		return pets.Pet{}, ResolutionEvent{}, false, err
	}
	if !has {
		return pet, ResolutionEvent{}, false, nil
	}

	active.Lifecycle = LifecycleResolved
	active.ResolvedAt = &at
	if err := s.repo.UpdateReport(ctx, active); err != nil {
		return pets.Pet{}, ResolutionEvent{}, false, err
	}

	ev := ResolutionEvent{
		Report: active,
		Pet:    pet,
		At:     at,
	}
	return pet, ev, true, nil
}

// ActiveReport es la vista (reporte, mascota, ubicación) que consumen
// el listado público y la búsqueda por cercanía.
type ActiveReport struct {
	Report   Report
	Pet      pets.Pet
	Location Location
}

// ListActive devuelve una foto de los reportes activos. Lectura pura:
// no toma el lock de ningún pet.
func (s *Service) ListActive(ctx context.Context) ([]ActiveReport, error) {
	rs, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ActiveReport, 0, len(rs))
	for _, r := range rs {
		pet, err := s.pets.GetByID(ctx, r.PetID)
		if err != nil {
			// tolera huérfanos: el snapshot no falla por un pet borrado
			continue
		}
		loc, err := s.repo.GetLocation(ctx, r.LocationID)
		if err != nil {
			continue
		}
		out = append(out, ActiveReport{Report: r, Pet: pet, Location: loc})
	}
	return out, nil
}

// LatestLocation devuelve la última ubicación reportada del pet (UC9).
// Solo el dueño puede consultarla.
func (s *Service) LatestLocation(ctx context.Context, petID, callerUserID string) (Report, Location, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || strings.TrimSpace(callerUserID) == "" {
		return Report{}, Location{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Report{}, Location{}, ErrPetNotFound
	}
	if pet.OwnerUserID != callerUserID {
		return Report{}, Location{}, ErrNotOwner
	}

	r, has, err := s.repo.LatestByPet(ctx, petID)
	if err != nil {
		return Report{}, Location{}, err
	}
	if !has {
		return Report{}, Location{}, ErrNoReports
	}

	loc, err := s.repo.GetLocation(ctx, r.LocationID)
	if err != nil {
		return Report{}, Location{}, err
	}
	return r, loc, nil
}

// ResolveAddress devuelve la ubicación enriqueciendo su descripción de
// forma lazy: si no hay descripción (o quedó el string degradado
// "Lat: ..."), consulta la cadena de geocodificación y persiste el
// resultado. Nunca falla por el proveedor: con fallback degradado la
// ubicación se devuelve igual.
func (s *Service) ResolveAddress(ctx context.Context, locationID string) (Location, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return Location{}, ErrInvalidInput
	}

	loc, err := s.repo.GetLocation(ctx, locationID)
	if err != nil {
		return Location{}, ErrNotFound
	}

	if loc.Description != "" && !strings.HasPrefix(loc.Description, "Lat:") {
		return loc, nil
	}
	if s.geocoder == nil {
		return loc, nil
	}

	res, err := s.geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	if err != nil {
		s.log.Warn("reverse geocode failed", map[string]any{
			"location_id": locationID,
			"error":       err.Error(),
		})
		return loc, nil
	}

	// El string degradado no pisa una descripción vacía con algo útil,
	// pero sí sirve como respuesta; solo persistimos direcciones reales.
	if res.Provider != "offline" && res.FormattedAddress != "" {
		if err := s.repo.UpdateLocationDescription(ctx, locationID, res.FormattedAddress); err == nil {
			loc.Description = res.FormattedAddress
		}
	} else if loc.Description == "" {
		loc.Description = res.FormattedAddress
	}

	return loc, nil
}

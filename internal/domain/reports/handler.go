package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/lost", fileLostHandler(svc))
		rr.Post("/found", fileFoundHandler(svc))

		// Listado público de reportes activos
		rr.Get("/active", listActiveHandler(svc))

		// Última ubicación reportada (owner only)
		rr.Get("/pets/{petID}/location", latestLocationHandler(svc))
	})

	// Ubicación con dirección enriquecida lazy
	r.Get("/geocoding/locations/{locationID}", resolveAddressHandler(svc))
}

type fileLostRequest struct {
	PetID            string  `json:"pet_id"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	PlaceDescription string  `json:"place_description"`
	Description      string  `json:"description"`
}

type fileFoundRequest struct {
	PetID string `json:"pet_id"`
}

type reportResponse struct {
	ID             string     `json:"id"`
	PetID          string     `json:"pet_id"`
	ReporterUserID string     `json:"reporter_user_id"`
	Kind           Kind       `json:"kind"`
	Lifecycle      Lifecycle  `json:"lifecycle"`
	LocationID     string     `json:"location_id"`
	Description    string     `json:"description"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	MatchCount     int        `json:"match_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

type locationResponse struct {
	ID              string    `json:"id"`
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	Description     string    `json:"description,omitempty"`
	PrecisionMeters *int      `json:"precision_meters,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type activeReportResponse struct {
	Report   reportResponse `json:"report"`
	Pet      petSummary     `json:"pet"`
	Location locationLatLon `json:"location"`
}

// petSummary expone solo lo necesario para identificar la mascota en
// listados públicos (sin chip ni notas privadas).
type petSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	PhotoURL string `json:"photo_url"`
	Size     string `json:"size"`
	Colors   string `json:"colors"`
}

type locationLatLon struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description,omitempty"`
}

func fileLostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req fileLostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		report, err := svc.FileLost(r.Context(), req.PetID, claims.UserID, LostInput{
			Lat:              req.Lat,
			Lon:              req.Lon,
			PlaceDescription: req.PlaceDescription,
			Description:      req.Description,
		}, time.Time{})
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(report))
	}
}

func fileFoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req fileFoundRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		pet, err := svc.FileFound(r.Context(), req.PetID, claims.UserID, time.Time{})
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"pet_id": pet.ID,
			"name":   pet.Name,
			"status": "recovered",
		})
	}
}

func listActiveHandler(svc *Service) http.HandlerFunc {
	// Público: no exige claims.
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]activeReportResponse, 0, len(items))
		for _, ar := range items {
			out = append(out, toActiveReportResponse(ar))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func latestLocationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		report, loc, err := svc.LatestLocation(r.Context(), petID, claims.UserID)
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"report":   toReportResponse(report),
			"location": toLocationResponse(loc),
		})
	}
}

func resolveAddressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID := chi.URLParam(r, "locationID")
		loc, err := svc.ResolveAddress(r.Context(), locationID)
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toLocationResponse(loc))
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotOwner):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrPetNotFound), errors.Is(err, ErrNoReports), errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyLost), errors.Is(err, ErrAlreadyRecovered):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toReportResponse(rep Report) reportResponse {
	return reportResponse{
		ID:             rep.ID,
		PetID:          rep.PetID,
		ReporterUserID: rep.ReporterUserID,
		Kind:           rep.Kind,
		Lifecycle:      rep.Lifecycle,
		LocationID:     rep.LocationID,
		Description:    rep.Description,
		ResolvedAt:     rep.ResolvedAt,
		MatchCount:     rep.MatchCount,
		CreatedAt:      rep.CreatedAt,
	}
}

func toLocationResponse(loc Location) locationResponse {
	return locationResponse{
		ID:              loc.ID,
		Lat:             loc.Lat,
		Lon:             loc.Lon,
		Description:     loc.Description,
		PrecisionMeters: loc.PrecisionMeters,
		CreatedAt:       loc.CreatedAt,
	}
}

func toActiveReportResponse(ar ActiveReport) activeReportResponse {
	return activeReportResponse{
		Report: toReportResponse(ar.Report),
		Pet:    toPetSummary(ar.Pet),
		Location: locationLatLon{
			Lat:         ar.Location.Lat,
			Lon:         ar.Location.Lon,
			Description: ar.Location.Description,
		},
	}
}

func toPetSummary(p pets.Pet) petSummary {
	return petSummary{
		ID:       p.ID,
		Name:     p.Name,
		Species:  string(p.Species),
		Breed:    p.Breed,
		PhotoURL: p.PhotoURL,
		Size:     string(p.Size),
		Colors:   p.Colors,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

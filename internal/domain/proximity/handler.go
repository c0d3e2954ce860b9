package proximity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert-network/internal/platform/geo"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/proximity/search", searchHandler(svc))
}

type searchRequest struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

type matchResponse struct {
	ReportID       string    `json:"report_id"`
	PetID          string    `json:"pet_id"`
	PetName        string    `json:"pet_name"`
	Species        string    `json:"species"`
	PhotoURL       string    `json:"photo_url"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	DistanceMeters float64   `json:"distance_meters"`
	ReportedAt     time.Time `json:"reported_at"`
}

func searchHandler(svc *Service) http.HandlerFunc {
	// Público, como el listado de reportes activos.
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		matches, err := svc.FindNearby(r.Context(), req.Lat, req.Lon, req.RadiusKm)
		if err != nil {
			if errors.Is(err, geo.ErrInvalidCoordinate) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchResponse{
				ReportID:       m.Report.ID,
				PetID:          m.Pet.ID,
				PetName:        m.Pet.Name,
				Species:        string(m.Pet.Species),
				PhotoURL:       m.Pet.PhotoURL,
				Lat:            m.Location.Lat,
				Lon:            m.Location.Lon,
				DistanceMeters: m.DistanceMeters,
				ReportedAt:     m.Report.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

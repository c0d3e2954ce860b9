package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-alert-network/internal/domain/status"
	"pet-alert-network/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, ledger *status.Ledger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc, ledger))

		// Perfil + historial de estados
		pr.Get("/{petID}", getPetHandler(svc, ledger))

		// Editar campos descriptivos (owner only)
		pr.Patch("/{petID}", updatePetHandler(svc))

		// Estado actual
		pr.Get("/{petID}/status", getStatusHandler(svc, ledger))
	})
}

type createPetRequest struct {
	Name     string `json:"name"`
	Species  string `json:"species"`
	Breed    string `json:"breed"`
	PhotoURL string `json:"photo_url"`
	Size     string `json:"size"`
	Colors   string `json:"colors"`
	Chip     string `json:"chip"`
	Notes    string `json:"notes"`
}

type petResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Species     Species   `json:"species"`
	Breed       string    `json:"breed"`
	PhotoURL    string    `json:"photo_url"`
	Size        Size      `json:"size"`
	Colors      string    `json:"colors"`
	Chip        string    `json:"chip,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type statusResponse struct {
	Tag       status.Tag `json:"tag"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"created_at"`
}

type petWithStatusResponse struct {
	Pet    petResponse     `json:"pet"`
	Status *statusResponse `json:"status,omitempty"`
}

type petWithHistoryResponse struct {
	Pet     petResponse      `json:"pet"`
	History []statusResponse `json:"history"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name     *string `json:"name"`
	Breed    *string `json:"breed"`
	PhotoURL *string `json:"photo_url"`
	Size     *string `json:"size"`
	Colors   *string `json:"colors"`
	Notes    *string `json:"notes"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			PhotoURL: req.PhotoURL,
			Size:     req.Size,
			Colors:   req.Colors,
			Chip:     req.Chip,
			Notes:    req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrChipTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service, ledger *status.Ledger) http.HandlerFunc {
	// Lista del owner, cada una con su estado actual.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petWithStatusResponse, 0, len(items))
		for _, p := range items {
			entry := petWithStatusResponse{Pet: toPetResponse(p)}
			if rec, has, err := ledger.Current(r.Context(), p.ID); err == nil && has {
				sr := toStatusResponse(rec)
				entry.Status = &sr
			}
			out = append(out, entry)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, ledger *status.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		history, err := ledger.History(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		hs := make([]statusResponse, 0, len(history))
		for _, rec := range history {
			hs = append(hs, toStatusResponse(rec))
		}

		writeJSON(w, http.StatusOK, petWithHistoryResponse{
			Pet:     toPetResponse(p),
			History: hs,
		})
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), petID, claims.UserID, UpdateProfileInput{
			Name:     req.Name,
			Breed:    req.Breed,
			PhotoURL: req.PhotoURL,
			Size:     req.Size,
			Colors:   req.Colors,
			Notes:    req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotOwner):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "pet not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

func getStatusHandler(svc *Service, ledger *status.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if _, err := svc.GetByID(r.Context(), petID); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		rec, has, err := ledger.Current(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !has {
			http.Error(w, "no status recorded", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toStatusResponse(rec))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		PhotoURL:    p.PhotoURL,
		Size:        p.Size,
		Colors:      p.Colors,
		Chip:        p.Chip,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toStatusResponse(rec status.StatusRecord) statusResponse {
	return statusResponse{
		Tag:       rec.Tag,
		Reason:    rec.Reason,
		CreatedAt: rec.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

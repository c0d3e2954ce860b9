package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-alert-network/internal/domain/alerts"
)

type alertsRepo struct {
	mu   sync.RWMutex
	byID map[string]alerts.Alert
}

func NewAlertsRepo() alerts.AlertRepository {
	return &alertsRepo{
		byID: make(map[string]alerts.Alert),
	}
}

func (r *alertsRepo) Create(ctx context.Context, a alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("alert id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("alert already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *alertsRepo) Update(ctx context.Context, a alerts.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *alertsRepo) GetByID(ctx context.Context, id string) (alerts.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return alerts.Alert{}, ErrNotFound
	}
	return a, nil
}

func (r *alertsRepo) GetByReportAndCategory(ctx context.Context, reportID string, cat alerts.Category) (alerts.Alert, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.ReportID == reportID && a.Category == cat {
			return a, true, nil
		}
	}
	return alerts.Alert{}, false, nil
}

type notificationsRepo struct {
	mu     sync.RWMutex
	byID   map[string]alerts.Notification
	byPair map[string]string // alertID+userID -> notificationID
}

func NewNotificationsRepo() alerts.NotificationRepository {
	return &notificationsRepo{
		byID:   make(map[string]alerts.Notification),
		byPair: make(map[string]string),
	}
}

func pairKey(alertID, userID string) string {
	return alertID + "|" + userID
}

func (r *notificationsRepo) Create(ctx context.Context, n alerts.Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		return false, errors.New("notification id required")
	}

	key := pairKey(n.AlertID, n.UserID)
	if _, exists := r.byPair[key]; exists {
		// una fila por (alert, recipient): el reintento no duplica
		return false, nil
	}

	r.byID[n.ID] = n
	r.byPair[key] = n.ID
	return true, nil
}

func (r *notificationsRepo) Update(ctx context.Context, n alerts.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[n.ID]; !exists {
		return ErrNotFound
	}
	r.byID[n.ID] = n
	return nil
}

func (r *notificationsRepo) GetByID(ctx context.Context, id string) (alerts.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return alerts.Notification{}, ErrNotFound
	}
	return n, nil
}

func (r *notificationsRepo) ListByAlert(ctx context.Context, alertID string) ([]alerts.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alerts.Notification, 0)
	for _, n := range r.byID {
		if n.AlertID == alertID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *notificationsRepo) ListByUser(ctx context.Context, userID string) ([]alerts.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alerts.Notification, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

package alerts

import "context"

type AlertRepository interface {
	Create(ctx context.Context, a Alert) error
	Update(ctx context.Context, a Alert) error
	GetByID(ctx context.Context, id string) (Alert, error)
	// GetByReportAndCategory permite reanudar un fan-out parcial sin
	// crear una segunda alerta para el mismo evento.
	GetByReportAndCategory(ctx context.Context, reportID string, cat Category) (Alert, bool, error)
}

type NotificationRepository interface {
	// Create inserta la notificación si no existe fila para su par
	// (AlertID, UserID). Devuelve false si ya existía (upsert-or-skip).
	Create(ctx context.Context, n Notification) (bool, error)
	Update(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	ListByAlert(ctx context.Context, alertID string) ([]Notification, error)
	// ListByUser devuelve las notificaciones del usuario, más reciente primero.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
}

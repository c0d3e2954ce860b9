package postgres

import (
	"context"
	"database/sql"

	"pet-alert-network/internal/domain/alerts"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (id, report_id, message, delivered, category, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		a.ID,
		a.ReportID,
		a.Message,
		a.Delivered,
		a.Category,
		a.CreatedAt,
	)
	return err
}

func (r *AlertsRepo) Update(ctx context.Context, a alerts.Alert) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE alerts SET message = $2, delivered = $3 WHERE id = $1
	`, a.ID, a.Message, a.Delivered)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AlertsRepo) GetByID(ctx context.Context, id string) (alerts.Alert, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, report_id, message, delivered, category, created_at
		FROM alerts
		WHERE id = $1
	`, id)

	var a alerts.Alert
	if err := row.Scan(&a.ID, &a.ReportID, &a.Message, &a.Delivered, &a.Category, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return alerts.Alert{}, ErrNotFound
		}
		return alerts.Alert{}, err
	}
	return a, nil
}

func (r *AlertsRepo) GetByReportAndCategory(ctx context.Context, reportID string, cat alerts.Category) (alerts.Alert, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, report_id, message, delivered, category, created_at
		FROM alerts
		WHERE report_id = $1 AND category = $2
	`, reportID, cat)

	var a alerts.Alert
	if err := row.Scan(&a.ID, &a.ReportID, &a.Message, &a.Delivered, &a.Category, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return alerts.Alert{}, false, nil
		}
		return alerts.Alert{}, false, err
	}
	return a, true, nil
}

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

const notificationColumns = `
	id, alert_id, user_id,
	channel, content, state, retries, read_at,
	created_at, updated_at
`

func scanNotification(row interface{ Scan(...any) error }) (alerts.Notification, error) {
	var n alerts.Notification
	var readAt sql.NullTime
	err := row.Scan(
		&n.ID,
		&n.AlertID,
		&n.UserID,
		&n.Channel,
		&n.Content,
		&n.State,
		&n.Retries,
		&readAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return alerts.Notification{}, err
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}

// Create es upsert-or-skip sobre el unique (alert_id, user_id): si la
// fila ya existe no inserta ni falla, devuelve false.
func (r *NotificationsRepo) Create(ctx context.Context, n alerts.Notification) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, alert_id, user_id,
			channel, content, state, retries,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (alert_id, user_id) DO NOTHING
	`,
		n.ID,
		n.AlertID,
		n.UserID,
		n.Channel,
		n.Content,
		n.State,
		n.Retries,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	inserted, _ := res.RowsAffected()
	return inserted > 0, nil
}

func (r *NotificationsRepo) Update(ctx context.Context, n alerts.Notification) error {
	var readAt sql.NullTime
	if n.ReadAt != nil {
		readAt = sql.NullTime{Time: *n.ReadAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET
			state = $2,
			retries = $3,
			read_at = $4,
			updated_at = $5
		WHERE id = $1
	`,
		n.ID,
		n.State,
		n.Retries,
		readAt,
		n.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (alerts.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)

	n, err := scanNotification(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return alerts.Notification{}, ErrNotFound
		}
		return alerts.Notification{}, err
	}
	return n, nil
}

func (r *NotificationsRepo) ListByAlert(ctx context.Context, alertID string) ([]alerts.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE alert_id = $1
		ORDER BY created_at ASC
	`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string) ([]alerts.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func collectNotifications(rows *sql.Rows) ([]alerts.Notification, error) {
	out := make([]alerts.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

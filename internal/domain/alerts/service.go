package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-alert-network/internal/domain/reports"
	"pet-alert-network/internal/metrics"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/directory"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrNotRecipient   = errors.New("not the notification recipient")
	ErrRetryExhausted = errors.New("notification retries exhausted")
)

// Service implementa reports.AlertSink: genera alertas y hace el
// fan-out de notificaciones por destinatario.
type Service struct {
	alerts AlertRepository
	notifs NotificationRepository
	dir    directory.RecipientDirectory
	log    logger.Logger
	now    func() time.Time
}

func NewService(alertsRepo AlertRepository, notifsRepo NotificationRepository, dir directory.RecipientDirectory, log logger.Logger) *Service {
	return &Service{
		alerts: alertsRepo,
		notifs: notifsRepo,
		dir:    dir,
		log:    log,
		now:    time.Now,
	}
}

// ReportActivated genera la alerta de pérdida y encola una notificación
// por destinatario. Idempotente por (alert, recipient): reejecutar tras
// un fallo parcial saltea a los ya notificados en vez de duplicar.
func (s *Service) ReportActivated(ctx context.Context, ev reports.ActivationEvent) error {
	message := BuildLostMessage(ev)

	alert, existed, err := s.alerts.GetByReportAndCategory(ctx, ev.Report.ID, CategoryLost)
	if err != nil {
		return err
	}
	if !existed {
		alert = Alert{
			ID:        uuid.NewString(),
			ReportID:  ev.Report.ID,
			Message:   message,
			Delivered: false,
			Category:  CategoryLost,
			CreatedAt: ev.At,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return err
		}
		metrics.AlertsCreated.WithLabelValues(string(CategoryLost)).Inc()
	}

	recipients, err := s.dir.ListCandidateRecipients(ctx)
	if err != nil {
		// La alerta ya existe; con Delivered=false el fan-out puede
		// reanudarse cuando el directorio vuelva.
		return err
	}

	enqueued := 0
	for _, rcpt := range recipients {
		created, err := s.notifs.Create(ctx, Notification{
			ID:        uuid.NewString(),
			AlertID:   alert.ID,
			UserID:    rcpt.UserID,
			Channel:   ChannelEmail,
			Content:   BuildRecipientContent(rcpt.FirstName, ev.Pet.Name, message),
			State:     StatePending,
			Retries:   0,
			CreatedAt: ev.At,
			UpdatedAt: ev.At,
		})
		if err != nil {
			return err
		}
		if !created {
			metrics.FanoutSkips.Inc()
			continue
		}
		enqueued++
		metrics.NotificationsEnqueued.WithLabelValues(string(ChannelEmail)).Inc()
	}

	alert.Delivered = true
	if err := s.alerts.Update(ctx, alert); err != nil {
		return err
	}

	s.log.Info("lost alert fanned out", map[string]any{
		"alert_id":   alert.ID,
		"report_id":  ev.Report.ID,
		"recipients": len(recipients),
		"enqueued":   enqueued,
	})
	return nil
}

// ReportResolved genera la alerta de recuperación. Sin fan-out: por
// ahora es solo para el dueño.
func (s *Service) ReportResolved(ctx context.Context, ev reports.ResolutionEvent) error {
	if _, existed, err := s.alerts.GetByReportAndCategory(ctx, ev.Report.ID, CategoryRecovered); err != nil {
		return err
	} else if existed {
		return nil
	}

	alert := Alert{
		ID:        uuid.NewString(),
		ReportID:  ev.Report.ID,
		Message:   BuildRecoveredMessage(ev.Pet.Name),
		Delivered: true,
		Category:  CategoryRecovered,
		CreatedAt: ev.At,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return err
	}
	metrics.AlertsCreated.WithLabelValues(string(CategoryRecovered)).Inc()
	return nil
}

// RecordSendResult asienta el resultado de un intento de envío hecho
// por el adaptador de canal externo. Un envío exitoso pasa a sent sin
// importar cuántos reintentos llevaba; un fallo incrementa el contador
// y al llegar al tope la notificación queda en failed, terminal.
func (s *Service) RecordSendResult(ctx context.Context, notificationID string, sent bool, at time.Time) (Notification, error) {
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return Notification{}, ErrInvalidInput
	}
	if at.IsZero() {
		at = s.now()
	}

	n, err := s.notifs.GetByID(ctx, notificationID)
	if err != nil {
		return Notification{}, ErrNotFound
	}

	if n.State == StateFailed {
		return Notification{}, ErrRetryExhausted
	}

	if sent {
		// read ya implica entregado: un resultado tardío no lo retrocede
		if n.State != StateRead {
			n.State = StateSent
		}
		n.UpdatedAt = at
		if err := s.notifs.Update(ctx, n); err != nil {
			return Notification{}, err
		}
		metrics.SendResults.WithLabelValues("sent").Inc()
		return n, nil
	}

	n.Retries++
	if n.Retries >= MaxRetries {
		n.Retries = MaxRetries
		n.State = StateFailed
	}
	n.UpdatedAt = at
	if err := s.notifs.Update(ctx, n); err != nil {
		return Notification{}, err
	}

	if n.State == StateFailed {
		metrics.SendResults.WithLabelValues("failed").Inc()
		return n, ErrRetryExhausted
	}
	metrics.SendResults.WithLabelValues("retry").Inc()
	return n, nil
}

// MarkRead marca la notificación como leída. Solo el destinatario
// puede; idempotente si ya estaba leída.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string, at time.Time) (Notification, error) {
	notificationID = strings.TrimSpace(notificationID)
	userID = strings.TrimSpace(userID)
	if notificationID == "" || userID == "" {
		return Notification{}, ErrInvalidInput
	}
	if at.IsZero() {
		at = s.now()
	}

	n, err := s.notifs.GetByID(ctx, notificationID)
	if err != nil {
		return Notification{}, ErrNotFound
	}
	if n.UserID != userID {
		return Notification{}, ErrNotRecipient
	}
	if n.State == StateRead {
		return n, nil
	}

	n.State = StateRead
	n.ReadAt = &at
	n.UpdatedAt = at
	if err := s.notifs.Update(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.notifs.ListByUser(ctx, userID)
}

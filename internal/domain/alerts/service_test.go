package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "pet-alert-network/internal/adapters/storage/memory"
	"pet-alert-network/internal/domain/alerts"
	"pet-alert-network/internal/domain/pets"
	"pet-alert-network/internal/domain/reports"
	"pet-alert-network/internal/domain/users"
	"pet-alert-network/internal/platform/logger"
	"pet-alert-network/internal/ports/directory"
)

// -------------------------
// Test doubles
// -------------------------

type stubDirectory struct {
	recipients []directory.Recipient
	err        error
}

func (d *stubDirectory) ListCandidateRecipients(ctx context.Context) ([]directory.Recipient, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.recipients, nil
}

type fixture struct {
	svc    *alerts.Service
	alerts alerts.AlertRepository
	notifs alerts.NotificationRepository
	dir    *stubDirectory
}

func newFixture() *fixture {
	alertsRepo := mem.NewAlertsRepo()
	notifsRepo := mem.NewNotificationsRepo()
	dir := &stubDirectory{
		recipients: []directory.Recipient{
			{UserID: "vecino-1", FirstName: "Marta", Email: "marta@example.com"},
			{UserID: "vecino-2", FirstName: "Raúl", Email: "raul@example.com"},
		},
	}
	log := logger.New(logger.Options{Level: logger.Error})

	return &fixture{
		svc:    alerts.NewService(alertsRepo, notifsRepo, dir, log),
		alerts: alertsRepo,
		notifs: notifsRepo,
		dir:    dir,
	}
}

func activationEvent() reports.ActivationEvent {
	precision := 50
	at := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	return reports.ActivationEvent{
		Report: reports.Report{
			ID:        "report-1",
			PetID:     "pet-1",
			Kind:      reports.KindLost,
			Lifecycle: reports.LifecycleActive,
			CreatedAt: at,
		},
		Pet: pets.Pet{
			ID:      "pet-1",
			Name:    "Rocky",
			Species: pets.SpeciesDog,
			Breed:   "Mestizo",
			Size:    pets.SizeMedium,
			Colors:  "marrón",
		},
		Owner: users.User{
			ID:    "owner-1",
			Phone: "111-2222",
			Email: "fermin@example.com",
		},
		Location: reports.Location{
			ID:              "loc-1",
			Lat:             -31.82,
			Lon:             -60.51,
			Description:     "Plaza Sáenz Peña",
			PrecisionMeters: &precision,
			CreatedAt:       at,
		},
		At: at,
	}
}

// -------------------------
// Tests
// -------------------------

func TestReportActivated_FansOutToRecipients(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	alert, has, err := f.alerts.GetByReportAndCategory(context.Background(), "report-1", alerts.CategoryLost)
	require.NoError(t, err)
	require.True(t, has)
	assert.True(t, alert.Delivered)
	assert.Contains(t, alert.Message, "MASCOTA PERDIDA: Rocky")
	assert.Contains(t, alert.Message, "Plaza Sáenz Peña")

	for _, userID := range []string{"vecino-1", "vecino-2"} {
		ns, err := f.notifs.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		assert.Equal(t, alerts.StatePending, ns[0].State)
		assert.Equal(t, alerts.ChannelEmail, ns[0].Channel)
	}
}

func TestReportActivated_IdempotentPerRecipient(t *testing.T) {
	f := newFixture()
	ev := activationEvent()

	require.NoError(t, f.svc.ReportActivated(context.Background(), ev))
	// Reentrega del evento: no duplica notificaciones.
	require.NoError(t, f.svc.ReportActivated(context.Background(), ev))

	for _, userID := range []string{"vecino-1", "vecino-2"} {
		ns, err := f.notifs.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Len(t, ns, 1)
	}
}

func TestReportActivated_ResumesAfterPartialFanout(t *testing.T) {
	f := newFixture()
	ev := activationEvent()

	// Primer intento: el directorio falla después de crear la alerta.
	f.dir.err = errors.New("directory down")
	err := f.svc.ReportActivated(context.Background(), ev)
	require.Error(t, err)

	alert, has, gerr := f.alerts.GetByReportAndCategory(context.Background(), "report-1", alerts.CategoryLost)
	require.NoError(t, gerr)
	require.True(t, has)
	assert.False(t, alert.Delivered)

	// Reintento: misma alerta, ahora entrega.
	f.dir.err = nil
	require.NoError(t, f.svc.ReportActivated(context.Background(), ev))

	after, _, gerr := f.alerts.GetByReportAndCategory(context.Background(), "report-1", alerts.CategoryLost)
	require.NoError(t, gerr)
	assert.Equal(t, alert.ID, after.ID)
	assert.True(t, after.Delivered)
}

func TestReportActivated_ZeroRecipients(t *testing.T) {
	f := newFixture()
	f.dir.recipients = nil

	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	alert, has, err := f.alerts.GetByReportAndCategory(context.Background(), "report-1", alerts.CategoryLost)
	require.NoError(t, err)
	require.True(t, has)
	// Sin destinatarios la alerta igual queda entregada: no hay nada pendiente.
	assert.True(t, alert.Delivered)
}

func TestReportResolved_Idempotent(t *testing.T) {
	f := newFixture()
	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	ev := reports.ResolutionEvent{
		Report: reports.Report{ID: "report-1", PetID: "pet-1"},
		Pet:    pets.Pet{ID: "pet-1", Name: "Rocky"},
		At:     at,
	}

	require.NoError(t, f.svc.ReportResolved(context.Background(), ev))
	require.NoError(t, f.svc.ReportResolved(context.Background(), ev))

	alert, has, err := f.alerts.GetByReportAndCategory(context.Background(), "report-1", alerts.CategoryRecovered)
	require.NoError(t, err)
	require.True(t, has)
	assert.Contains(t, alert.Message, "MASCOTA RECUPERADA")
	assert.True(t, alert.Delivered)
}

func TestRecordSendResult_RetriesThenFails(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	ns, err := f.notifs.ListByUser(context.Background(), "vecino-1")
	require.NoError(t, err)
	require.Len(t, ns, 1)
	id := ns[0].ID

	// Dos fallos: retries sube, sigue pending.
	for i := 1; i <= 2; i++ {
		n, err := f.svc.RecordSendResult(context.Background(), id, false, time.Now())
		require.NoError(t, err)
		assert.Equal(t, i, n.Retries)
		assert.Equal(t, alerts.StatePending, n.State)
	}

	// Tercer fallo: tope alcanzado, queda failed.
	n, err := f.svc.RecordSendResult(context.Background(), id, false, time.Now())
	assert.ErrorIs(t, err, alerts.ErrRetryExhausted)
	assert.Equal(t, alerts.StateFailed, n.State)
	assert.Equal(t, alerts.MaxRetries, n.Retries)

	// Terminal: otro resultado ya no se acepta.
	_, err = f.svc.RecordSendResult(context.Background(), id, true, time.Now())
	assert.ErrorIs(t, err, alerts.ErrRetryExhausted)
}

func TestRecordSendResult_SentAfterRetries(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	ns, err := f.notifs.ListByUser(context.Background(), "vecino-1")
	require.NoError(t, err)
	id := ns[0].ID

	_, err = f.svc.RecordSendResult(context.Background(), id, false, time.Now())
	require.NoError(t, err)

	n, err := f.svc.RecordSendResult(context.Background(), id, true, time.Now())
	require.NoError(t, err)
	assert.Equal(t, alerts.StateSent, n.State)
}

func TestRecordSendResult_LateSentDoesNotDemoteRead(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	ns, err := f.notifs.ListByUser(context.Background(), "vecino-1")
	require.NoError(t, err)
	id := ns[0].ID

	readAt := time.Date(2025, 11, 3, 15, 0, 0, 0, time.UTC)
	_, err = f.svc.MarkRead(context.Background(), id, "vecino-1", readAt)
	require.NoError(t, err)

	// Confirmación de envío que llega después de la lectura: se acepta
	// pero el estado no retrocede de read.
	n, err := f.svc.RecordSendResult(context.Background(), id, true, readAt.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alerts.StateRead, n.State)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, readAt, *n.ReadAt)
}

func TestMarkRead_RecipientOnlyAndIdempotent(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.svc.ReportActivated(context.Background(), activationEvent()))

	ns, err := f.notifs.ListByUser(context.Background(), "vecino-1")
	require.NoError(t, err)
	id := ns[0].ID

	_, err = f.svc.MarkRead(context.Background(), id, "vecino-2", time.Now())
	assert.ErrorIs(t, err, alerts.ErrNotRecipient)

	at := time.Date(2025, 11, 3, 15, 0, 0, 0, time.UTC)
	n, err := f.svc.MarkRead(context.Background(), id, "vecino-1", at)
	require.NoError(t, err)
	assert.Equal(t, alerts.StateRead, n.State)
	require.NotNil(t, n.ReadAt)
	assert.Equal(t, at, *n.ReadAt)

	// Releer no cambia el ReadAt original.
	again, err := f.svc.MarkRead(context.Background(), id, "vecino-1", at.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, again.ReadAt)
	assert.Equal(t, at, *again.ReadAt)
}

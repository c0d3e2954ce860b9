package alerts

import "time"

// Category define el tipo de alerta generada.
type Category string

const (
	CategoryLost      Category = "lost"
	CategoryFound     Category = "found"
	CategorySighted   Category = "sighted"
	CategoryRecovered Category = "recovered"
)

// Alert es el mensaje generado para un reporte. Se crea exactamente una
// vez por evento disparador; Delivered marca "encolado para todos los
// destinatarios", no entrega real.
type Alert struct {
	ID       string
	ReportID string

	Message   string
	Delivered bool
	Category  Category

	CreatedAt time.Time
}

// Channel define el canal de entrega de una notificación.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

// State define el estado de entrega de una notificación.
type State string

const (
	StatePending State = "pending"
	StateSent    State = "sent"
	StateRead    State = "read"
	StateFailed  State = "failed"
)

// MaxRetries acota los reintentos de envío; al llegar acá la
// notificación queda en failed y no se reintenta más.
const MaxRetries = 3

// Notification es la entrega de una alerta a un destinatario. Hay a lo
// sumo una fila por (AlertID, UserID): los reintentos mutan la fila,
// nunca crean duplicados.
type Notification struct {
	ID      string
	AlertID string
	UserID  string

	Channel Channel
	Content string

	State   State
	Retries int
	ReadAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

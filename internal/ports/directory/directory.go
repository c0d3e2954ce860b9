package directory

import "context"

// Recipient es un destinatario candidato para el fan-out de alertas.
type Recipient struct {
	UserID    string
	FirstName string
	Email     string
}

// RecipientDirectory selecciona destinatarios de alertas. La
// aproximación actual es "vecinos activos, acotado a N"; una versión
// futura debería aceptar (lat, lon, radiusKm) y filtrar por cercanía.
type RecipientDirectory interface {
	ListCandidateRecipients(ctx context.Context) ([]Recipient, error)
}

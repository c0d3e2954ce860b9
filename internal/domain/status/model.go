package status

import "time"

// Tag define los estados de ciclo de vida de una mascota.
type Tag string

const (
	TagActive    Tag = "active"
	TagLost      Tag = "lost"
	TagFound     Tag = "found"
	TagRecovered Tag = "recovered"
	TagDeceased  Tag = "deceased"
)

// StatusRecord es una entrada del historial de estados. Append-only:
// nunca se actualiza ni se borra.
type StatusRecord struct {
	ID    string
	PetID string

	Tag    Tag
	Reason string

	CreatedAt time.Time
}

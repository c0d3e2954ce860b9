package pets

import "time"

// Species define las especies soportadas.
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Size define el tamaño de la mascota, usado en las alertas para
// facilitar la identificación a la distancia.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Pet representa el perfil de una mascota registrada en el sistema.
// species y chip quedan fijos después del alta (integridad de
// identificación); el resto de los campos descriptivos es editable.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string

	PhotoURL string
	Size     Size
	Colors   string

	// Código de chip opcional, único si está presente.
	Chip string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

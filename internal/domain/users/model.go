package users

import "time"

// Role define los roles soportados.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// User representa un usuario del sistema: dueños de mascotas y
// vecinos que reciben alertas de la zona.
type User struct {
	ID string

	FirstName string
	LastName  string
	Email     string
	Phone     string

	Role   Role
	Active bool

	// Si el usuario permite mostrar su contacto en reportes públicos.
	AllowContactSharing bool

	CreatedAt time.Time
}

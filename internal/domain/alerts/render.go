package alerts

import (
	"fmt"

	"pet-alert-network/internal/domain/reports"
)

// BuildLostMessage arma el texto de la alerta de pérdida. Función pura:
// todo lo que necesita viene en el evento.
func BuildLostMessage(ev reports.ActivationEvent) string {
	place := ev.Location.Description
	if place == "" {
		place = fmt.Sprintf("Lat: %v, Lng: %v", ev.Location.Lat, ev.Location.Lon)
	}

	return fmt.Sprintf(`⚠️ MASCOTA PERDIDA: %s (%s - %s)
📍 Ubicación: %s
🎨 Colores: %s
📏 Tamaño: %s
📞 Contacto: %s
📧 Email: %s
📝 %s`,
		ev.Pet.Name, ev.Pet.Breed, ev.Pet.Species,
		place,
		ev.Pet.Colors,
		ev.Pet.Size,
		ev.Owner.Phone,
		ev.Owner.Email,
		ev.Report.Description,
	)
}

// BuildRecipientContent personaliza el mensaje para un destinatario.
func BuildRecipientContent(firstName, petName, message string) string {
	return fmt.Sprintf("Hola %s, se ha reportado una mascota perdida cerca de tu zona: %s. %s", firstName, petName, message)
}

// BuildRecoveredMessage arma el texto de la alerta de recuperación.
func BuildRecoveredMessage(petName string) string {
	return fmt.Sprintf("✅ MASCOTA RECUPERADA: %s ha sido encontrada por su dueño.", petName)
}

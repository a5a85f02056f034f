package entity

// Actor identifica quién origina un cambio: un usuario o el sistema.
type Actor string

// SystemActor es el principal reservado para cambios automáticos
// (cierre de alertas por el motor, importaciones sin usuario).
const SystemActor Actor = "system"

// UserActor construye el actor de un usuario. Un ID vacío equivale al sistema.
func UserActor(userID string) Actor {
	if userID == "" {
		return SystemActor
	}
	return Actor(userID)
}

// IsSystem indica si el actor es el sistema.
func (a Actor) IsSystem() bool { return a == SystemActor || a == "" }

// UserID devuelve el ID de usuario, o "" para el sistema (se persiste como NULL).
func (a Actor) UserID() string {
	if a.IsSystem() {
		return ""
	}
	return string(a)
}

// String devuelve la identidad que se guarda como resolvedor de alertas.
func (a Actor) String() string {
	if a.IsSystem() {
		return string(SystemActor)
	}
	return string(a)
}

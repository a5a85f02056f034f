package entity

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User es la vista mínima del directorio de usuarios que necesita el ledger:
// resolver el nombre del actor en el historial. La gestión de cuentas vive fuera.
type User struct {
	ID       string
	Username string
	Role     string
}

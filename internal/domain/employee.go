package domain

// Employee roles.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Employee is a back-office reviewer. Employees are provisioned out of
// band (cmd/seed); the API never creates or deletes them.
type Employee struct {
	ID           int64
	Username     string
	Email        string
	Role         string
	PasswordHash string
}

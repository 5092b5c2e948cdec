package models

// Principal is the authenticated identity attached to a request, extracted
// from the verified token claims by the auth middleware.
type Principal struct {
	ID    int64
	Email string
	Name  string
	Role  RoleType
}

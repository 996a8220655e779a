package domain

// Role is the capability label supplied with each request. It is never
// persisted as identity; authentication happens outside this service.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleHR       Role = "HR"
	RoleEmployee Role = "Employee"
)

// DocType classifies a stored document for role-based visibility.
type DocType string

const (
	DocTypePublic DocType = "public"
	DocTypeHR     DocType = "hr"
	DocTypeAdmin  DocType = "admin"
)

// ParseRole maps a raw role string to a known Role. Unknown values coerce to
// Employee (least privilege); coerced reports whether that happened so the
// caller can log it.
func ParseRole(raw string) (role Role, coerced bool) {
	switch Role(raw) {
	case RoleAdmin, RoleHR, RoleEmployee:
		return Role(raw), false
	default:
		return RoleEmployee, true
	}
}

// ParseDocType maps a raw doc type string to a known DocType. Unknown values
// coerce to public (fail-open on classification); coerced reports whether
// that happened so the caller can log it.
func ParseDocType(raw string) (docType DocType, coerced bool) {
	switch DocType(raw) {
	case DocTypePublic, DocTypeHR, DocTypeAdmin:
		return DocType(raw), false
	default:
		return DocTypePublic, true
	}
}

package ports

import "time"

// Audit actions and outcomes recorded on the security trail.
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"

	AuditOutcomeSuccess = "success"
	AuditOutcomeDenied  = "denied"
)

// AuditEvent is a single entry on the security audit trail.
type AuditEvent struct {
	Action    string
	Email     string
	Outcome   string
	Timestamp time.Time
}

// AuditRecorder accepts audit events for asynchronous persistence.
// Recording is fire-and-forget: failures are logged by the implementation
// and never surfaced to the caller.
type AuditRecorder interface {
	Record(event AuditEvent)
}

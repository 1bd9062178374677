package rbac

// Permission identifies a single grantable capability by bit position.
//
// Ids are append-only: renumbering an existing permission silently corrupts
// every blob already stored, so new permissions are only ever added at the
// end of the list.
type Permission uint8

const (
	// PermAll is the reserved sentinel. A role holding PermAll is encoded
	// as the single zero byte and passes every permission check. It is not
	// an ordinary grantable bit.
	PermAll Permission = iota
	PermCreateIncident
	PermViewIncident
	PermDeleteIncident
	PermUpdateIncident
	PermViewAllIncident
	PermCreateAuditTrail
	PermViewAuditTrail
	PermViewAllAuditTrail
	PermCreateComment
	PermViewComment

	// permCount marks the end of the enumeration. Add new permissions
	// above this line only.
	permCount
)

// MaxPermissions is the widest bit position the codec supports. Masks are
// held in a uint64, so ids beyond 63 would need a wider mask type first.
const MaxPermissions = 64

var permissionNames = map[Permission]string{
	PermAll:               "all",
	PermCreateIncident:    "incident:create",
	PermViewIncident:      "incident:view",
	PermDeleteIncident:    "incident:delete",
	PermUpdateIncident:    "incident:update",
	PermViewAllIncident:   "incident:view_all",
	PermCreateAuditTrail:  "audittrail:create",
	PermViewAuditTrail:    "audittrail:view",
	PermViewAllAuditTrail: "audittrail:view_all",
	PermCreateComment:     "comment:create",
	PermViewComment:       "comment:view",
}

// String returns the human-readable permission name, used in logs and
// permission-denied responses.
func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether p is part of the defined enumeration.
func (p Permission) Valid() bool {
	return p < permCount
}

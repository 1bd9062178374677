package audit

// Action identifies what a user did. Values are stored verbatim in the
// audit trail and used as list filters, so they never change once written.
type Action string

const (
	ActionCreateUser      Action = "CREATE_USER"
	ActionLogin           Action = "LOGIN"
	ActionCreateIncident  Action = "CREATE_INCIDENT"
	ActionUpdateIncident  Action = "UPDATE_INCIDENT"
	ActionDeleteIncident  Action = "DELETE_INCIDENT"
	ActionImportIncidents Action = "IMPORT_INCIDENTS"
	ActionCreateComment   Action = "CREATE_COMMENT"
)

// Page is one page of audit entries with pagination bookkeeping.
type Page struct {
	Entries    []*Entry `json:"audit_trails"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Limit      int      `json:"limit"`
}

// Entry is the API shape of a single audit record.
type Entry struct {
	ID          string `json:"id"`
	UserAction  string `json:"user_action"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email"`
	CreatedOn   string `json:"created_on"`
	CreatedBy   string `json:"created_by"`
}

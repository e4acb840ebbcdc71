package domain

import "time"

// ActionTicketUpdated labels every audit entry produced by a field update.
const ActionTicketUpdated = "Updated ticket"

// Ticket fields tracked by the audit history, in canonical order.
const (
	FieldIssueType   = "issueType"
	FieldDepartment  = "department"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldSubject     = "subject"
	FieldDescription = "description"
	FieldAssignedTo  = "assignedTo"
	FieldAttachments = "attachments"
)

// Actor identifies who performed a change.
type Actor struct {
	ID    string
	Email string
	Name  string
}

// FieldChange is one field delta. OldValue is nil when the field had no value.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID        string
	TicketID  string
	Seq       int
	Action    string
	Changes   []FieldChange
	Actor     Actor
	CreatedAt time.Time
}

package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// IssueType classifies what the ticket is about.
type IssueType string

const (
	IssueTypeBug            IssueType = "Bug"
	IssueTypeBilling        IssueType = "Billing"
	IssueTypeFeatureRequest IssueType = "Feature Request"
	IssueTypeUIIssues       IssueType = "UI Issues"
	IssueTypePerformance    IssueType = "Performance"
	IssueTypeOther          IssueType = "Other"
)

// Department routes the ticket to an organizational unit.
type Department string

const (
	DepartmentSupport   Department = "Support"
	DepartmentSales     Department = "Sales"
	DepartmentBilling   Department = "Billing"
	DepartmentTechnical Department = "Technical"
	DepartmentOther     Department = "Other"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	TicketID    int
	UserID      string
	IssueType   IssueType
	Department  Department
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	AssignedTo  *string
	Attachments []string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	cp := *t
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		cp.AssignedTo = &v
	}
	if t.UpdatedAt != nil {
		v := *t.UpdatedAt
		cp.UpdatedAt = &v
	}
	if t.Attachments != nil {
		cp.Attachments = append([]string(nil), t.Attachments...)
	}
	return &cp
}

var (
	validStatuses = map[TicketStatus]struct{}{
		TicketStatusOpen: {}, TicketStatusInProgress: {}, TicketStatusResolved: {}, TicketStatusClosed: {},
	}
	validPriorities = map[TicketPriority]struct{}{
		TicketPriorityLow: {}, TicketPriorityMedium: {}, TicketPriorityHigh: {}, TicketPriorityUrgent: {},
	}
	validIssueTypes = map[IssueType]struct{}{
		IssueTypeBug: {}, IssueTypeBilling: {}, IssueTypeFeatureRequest: {},
		IssueTypeUIIssues: {}, IssueTypePerformance: {}, IssueTypeOther: {},
	}
	validDepartments = map[Department]struct{}{
		DepartmentSupport: {}, DepartmentSales: {}, DepartmentBilling: {}, DepartmentTechnical: {}, DepartmentOther: {},
	}
)

func (s TicketStatus) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

func (p TicketPriority) Valid() bool {
	_, ok := validPriorities[p]
	return ok
}

func (i IssueType) Valid() bool {
	_, ok := validIssueTypes[i]
	return ok
}

func (d Department) Valid() bool {
	_, ok := validDepartments[d]
	return ok
}

// PriorityRank orders priorities from least to most urgent.
func PriorityRank(p TicketPriority) int {
	switch p {
	case TicketPriorityLow:
		return 0
	case TicketPriorityMedium:
		return 1
	case TicketPriorityHigh:
		return 2
	case TicketPriorityUrgent:
		return 3
	}
	return -1
}

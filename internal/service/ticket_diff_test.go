package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func baseTicket() *domain.Ticket {
	return &domain.Ticket{
		TicketID:    482913,
		IssueType:   domain.IssueTypeBug,
		Department:  domain.DepartmentSupport,
		Subject:     "Login fails",
		Description: "500 on submit",
		Priority:    domain.TicketPriorityLow,
		Status:      domain.TicketStatusOpen,
		Attachments: []string{},
	}
}

func TestDiffReportsOnlyChangedFields(t *testing.T) {
	high := domain.TicketPriorityHigh
	open := domain.TicketStatusOpen
	changes := Diff(baseTicket(), TicketPatch{
		Priority: &high,
		Status:   &open,
		Subject:  strPtr("Login fails"),
	})
	assert.Equal(t, []domain.FieldChange{
		{Field: domain.FieldPriority, OldValue: "low", NewValue: "high"},
	}, changes)
}

func TestDiffEmptyPatchIsNil(t *testing.T) {
	assert.Nil(t, Diff(baseTicket(), TicketPatch{}))
}

func TestDiffCanonicalOrder(t *testing.T) {
	resolved := domain.TicketStatusResolved
	billing := domain.DepartmentBilling
	changes := Diff(baseTicket(), TicketPatch{
		Description: strPtr("fixed in 2.3"),
		Status:      &resolved,
		Department:  &billing,
	})
	fields := make([]string, 0, len(changes))
	for _, c := range changes {
		fields = append(fields, c.Field)
	}
	assert.Equal(t, []string{domain.FieldDepartment, domain.FieldStatus, domain.FieldDescription}, fields)
}

func TestDiffAbsentOldValueIsNil(t *testing.T) {
	changes := Diff(baseTicket(), TicketPatch{
		AssignedTo:  OptionalString{Set: true, Value: strPtr("agent-7")},
		Attachments: &[]string{"trace.log"},
	})
	assert.Equal(t, []domain.FieldChange{
		{Field: domain.FieldAssignedTo, OldValue: nil, NewValue: "agent-7"},
		{Field: domain.FieldAttachments, OldValue: nil, NewValue: []string{"trace.log"}},
	}, changes)
}

func TestDiffClearingAssignee(t *testing.T) {
	current := baseTicket()
	current.AssignedTo = strPtr("agent-7")

	changes := Diff(current, TicketPatch{AssignedTo: OptionalString{Set: true}})
	assert.Equal(t, []domain.FieldChange{
		{Field: domain.FieldAssignedTo, OldValue: "agent-7", NewValue: nil},
	}, changes)

	assert.Nil(t, Diff(current, TicketPatch{AssignedTo: OptionalString{Set: true, Value: strPtr("agent-7")}}))
	assert.Nil(t, Diff(current, TicketPatch{}), "absent assignedTo leaves it alone")
}

func TestApplyChanges(t *testing.T) {
	ticket := baseTicket()
	ticket.AssignedTo = strPtr("agent-7")
	ApplyChanges(ticket, []domain.FieldChange{
		{Field: domain.FieldPriority, OldValue: "low", NewValue: "urgent"},
		{Field: domain.FieldAssignedTo, OldValue: "agent-7", NewValue: nil},
		{Field: domain.FieldAttachments, OldValue: nil, NewValue: []string{"a.png", "b.png"}},
		{Field: domain.FieldSubject, OldValue: "Login fails", NewValue: "SSO login fails"},
	})
	assert.Equal(t, domain.TicketPriorityUrgent, ticket.Priority)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, []string{"a.png", "b.png"}, ticket.Attachments)
	assert.Equal(t, "SSO login fails", ticket.Subject)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

package service

import (
	"slices"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

// OptionalString is a nullable field in a partial update. Set is false when
// the field was absent; Set with a nil Value clears the field.
type OptionalString struct {
	Set   bool
	Value *string
}

// TicketPatch is a partial ticket update. Nil fields are left untouched.
type TicketPatch struct {
	IssueType   *domain.IssueType
	Department  *domain.Department
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	Subject     *string
	Description *string
	AssignedTo  OptionalString
	Attachments *[]string
	// Version, when set, must match the stored version.
	Version *int64
}

// Diff returns the fields of patch whose value differs from current, in
// canonical field order. A nil result means nothing changed.
func Diff(current *domain.Ticket, patch TicketPatch) []domain.FieldChange {
	var changes []domain.FieldChange
	add := func(field string, oldValue, newValue any) {
		changes = append(changes, domain.FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
	}

	if patch.IssueType != nil && *patch.IssueType != current.IssueType {
		add(domain.FieldIssueType, stringOrNil(string(current.IssueType)), string(*patch.IssueType))
	}
	if patch.Department != nil && *patch.Department != current.Department {
		add(domain.FieldDepartment, stringOrNil(string(current.Department)), string(*patch.Department))
	}
	if patch.Priority != nil && *patch.Priority != current.Priority {
		add(domain.FieldPriority, stringOrNil(string(current.Priority)), string(*patch.Priority))
	}
	if patch.Status != nil && *patch.Status != current.Status {
		add(domain.FieldStatus, stringOrNil(string(current.Status)), string(*patch.Status))
	}
	if patch.Subject != nil && *patch.Subject != current.Subject {
		add(domain.FieldSubject, stringOrNil(current.Subject), *patch.Subject)
	}
	if patch.Description != nil && *patch.Description != current.Description {
		add(domain.FieldDescription, stringOrNil(current.Description), *patch.Description)
	}
	if patch.AssignedTo.Set && !equalStringPtr(patch.AssignedTo.Value, current.AssignedTo) {
		add(domain.FieldAssignedTo, stringPtrOrNil(current.AssignedTo), stringPtrOrNil(patch.AssignedTo.Value))
	}
	if patch.Attachments != nil && !slices.Equal(*patch.Attachments, current.Attachments) {
		var old any
		if len(current.Attachments) > 0 {
			old = slices.Clone(current.Attachments)
		}
		add(domain.FieldAttachments, old, slices.Clone(*patch.Attachments))
	}
	return changes
}

// ApplyChanges writes the new value of every change onto ticket.
func ApplyChanges(ticket *domain.Ticket, changes []domain.FieldChange) {
	for _, c := range changes {
		s, _ := c.NewValue.(string)
		switch c.Field {
		case domain.FieldIssueType:
			ticket.IssueType = domain.IssueType(s)
		case domain.FieldDepartment:
			ticket.Department = domain.Department(s)
		case domain.FieldPriority:
			ticket.Priority = domain.TicketPriority(s)
		case domain.FieldStatus:
			ticket.Status = domain.TicketStatus(s)
		case domain.FieldSubject:
			ticket.Subject = s
		case domain.FieldDescription:
			ticket.Description = s
		case domain.FieldAssignedTo:
			if c.NewValue == nil {
				ticket.AssignedTo = nil
			} else {
				ticket.AssignedTo = &s
			}
		case domain.FieldAttachments:
			list, _ := c.NewValue.([]string)
			ticket.Attachments = slices.Clone(list)
			if ticket.Attachments == nil {
				ticket.Attachments = []string{}
			}
		}
	}
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringPtrOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

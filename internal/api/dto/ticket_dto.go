package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UserID      string                `json:"userId"`
	IssueType   domain.IssueType      `json:"issueType"`
	Department  domain.Department     `json:"department"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []string              `json:"attachments"`
}

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the field was present.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// UpdateTicketRequest is a partial update; omitted fields stay unchanged.
type UpdateTicketRequest struct {
	IssueType   *domain.IssueType      `json:"issueType"`
	Department  *domain.Department     `json:"department"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *domain.TicketStatus   `json:"status"`
	Subject     *string                `json:"subject"`
	Description *string                `json:"description"`
	AssignedTo  NullableString         `json:"assignedTo"`
	Attachments *[]string              `json:"attachments"`
	Version     *int64                 `json:"version"`
}

// TicketResponse is the client view of a ticket.
type TicketResponse struct {
	ID            string                `json:"id"`
	TicketID      int                   `json:"ticketId"`
	UserID        string                `json:"userId"`
	IssueType     domain.IssueType      `json:"issueType"`
	Department    domain.Department     `json:"department"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	AssignedTo    *string               `json:"assignedTo"`
	AssigneeEmail *string               `json:"assigneeEmail,omitempty"`
	Attachments   []string              `json:"attachments"`
	Version       int64                 `json:"version"`
	CreatedDate   time.Time             `json:"createdDate"`
	UpdatedDate   *time.Time            `json:"updatedDate"`
}

// ActorResponse identifies who made a change.
type ActorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HistoryEntryResponse is one audit entry.
type HistoryEntryResponse struct {
	Action    string               `json:"action"`
	Changes   []domain.FieldChange `json:"changes"`
	Actor     ActorResponse        `json:"actor"`
	Timestamp time.Time            `json:"timestamp"`
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Data       []TicketResponse `json:"data"`
	TotalCount int              `json:"totalCount"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	attachments := t.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return TicketResponse{
		ID:          t.ID,
		TicketID:    t.TicketID,
		UserID:      t.UserID,
		IssueType:   t.IssueType,
		Department:  t.Department,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		Attachments: attachments,
		Version:     t.Version,
		CreatedDate: t.CreatedAt,
		UpdatedDate: t.UpdatedAt,
	}
}

// NewHistoryResponse maps audit entries, preserving order.
func NewHistoryResponse(entries []domain.TicketHistory) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		changes := e.Changes
		if changes == nil {
			changes = []domain.FieldChange{}
		}
		out = append(out, HistoryEntryResponse{
			Action:    e.Action,
			Changes:   changes,
			Actor:     ActorResponse{ID: e.Actor.ID, Email: e.Actor.Email, Name: e.Actor.Name},
			Timestamp: e.CreatedAt,
		})
	}
	return out
}

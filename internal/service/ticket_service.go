package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/events"
	"github.com/streamline-erp/ticket-service/internal/repository"
	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

// createAttempts bounds how often CreateTicket re-allocates after the store
// reports a duplicate ticket id.
const createAttempts = 3

// IDAllocator hands out unused ticket ids.
type IDAllocator interface {
	Next(ctx context.Context) (int, error)
}

// UpdateRecorder counts ticket update outcomes.
type UpdateRecorder interface {
	RecordTicketUpdate(result string)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	ids        IDAllocator
	dispatcher events.Dispatcher
	metrics    UpdateRecorder
	logger     *zap.Logger
	now        func() time.Time
	pageSize   int
	maxPage    int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo      repository.TicketRepository
	UserRepo        repository.UserRepository
	IDs             IDAllocator
	Dispatcher      events.Dispatcher
	Metrics         UpdateRecorder
	Logger          *zap.Logger
	Clock           func() time.Time
	DefaultPageSize int
	MaxPageSize     int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	UserID      string
	IssueType   domain.IssueType
	Department  domain.Department
	Subject     string
	Description string
	Priority    domain.TicketPriority
	Attachments []string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	IssueType  *domain.IssueType
	Department *domain.Department
	Priority   *domain.TicketPriority
	Status     *domain.TicketStatus
	Sort       string
	Page       int
	PageSize   int
}

// TicketDetail is a ticket with its assignee's email resolved.
type TicketDetail struct {
	Ticket        *domain.Ticket
	AssigneeEmail *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		ids:        deps.IDs,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
		pageSize:   deps.DefaultPageSize,
		maxPage:    deps.MaxPageSize,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.pageSize <= 0 {
		s.pageSize = 20
	}
	if s.maxPage <= 0 {
		s.maxPage = 100
	}
	return s
}

// CreateTicket opens a ticket on behalf of actor under a freshly allocated ticket id.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Description = strings.TrimSpace(input.Description)
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	userID := input.UserID
	if userID == "" {
		userID = actor.ID
	}
	if userID == "" {
		return nil, apperrors.NewValidationError("userId required", nil)
	}

	attachments := input.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		ticketID, err := s.ids.Next(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("allocate ticket id: %w", err))
		}
		ticket := &domain.Ticket{
			TicketID:    ticketID,
			UserID:      userID,
			IssueType:   input.IssueType,
			Department:  input.Department,
			Subject:     input.Subject,
			Description: input.Description,
			Priority:    input.Priority,
			Status:      domain.TicketStatusOpen,
			Attachments: attachments,
			CreatedAt:   s.now(),
		}
		err = s.tickets.Create(ctx, ticket)
		if errors.Is(err, repository.ErrDuplicateTicketID) {
			s.logger.Info("ticket id taken at insert; reallocating", zap.Int("ticket_id", ticketID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("create ticket: %w", err))
		}

		s.logger.Info("ticket created", zap.Int("ticket_id", ticket.TicketID), zap.String("id", ticket.ID))
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TicketID: ticket.TicketID,
			Actor:    events.ActorFrom(actor),
			Payload: events.TicketCreatedPayload{
				IssueType:  ticket.IssueType,
				Department: ticket.Department,
				Priority:   ticket.Priority,
				Subject:    ticket.Subject,
			},
		})
		return ticket, nil
	}
	return nil, apperrors.NewInternalError(fmt.Errorf("create ticket: ticket id collided %d times", createAttempts))
}

// GetTicket fetches a ticket by its ticket id and resolves the assignee's email.
func (s *TicketService) GetTicket(ctx context.Context, ticketID int) (*TicketDetail, error) {
	ticket, err := s.loadByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	detail := &TicketDetail{Ticket: ticket}
	if ticket.AssignedTo != nil && s.users != nil {
		assignee, err := s.users.GetByID(ctx, *ticket.AssignedTo)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			s.logger.Warn("assignee not found", zap.Int("ticket_id", ticketID), zap.String("assignee", *ticket.AssignedTo))
		case err != nil:
			return nil, apperrors.NewInternalError(fmt.Errorf("load assignee: %w", err))
		default:
			detail.AssigneeEmail = &assignee.Email
		}
	}
	return detail, nil
}

// ListTickets returns one page of tickets matching filter and the total match count.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, int, error) {
	if err := validateListFilter(filter); err != nil {
		return nil, 0, err
	}
	sortBy, desc, err := parseSort(filter.Sort)
	if err != nil {
		return nil, 0, err
	}

	size := clampPageSize(filter.PageSize, s.pageSize, s.maxPage)
	offset, err := pageOffset(filter.Page, size)
	if err != nil {
		return nil, 0, err
	}

	tickets, total, err := s.tickets.List(ctx, repository.TicketFilter{
		IssueType:  filter.IssueType,
		Department: filter.Department,
		Priority:   filter.Priority,
		Status:     filter.Status,
		SortBy:     sortBy,
		Descending: desc,
		Limit:      size,
		Offset:     offset,
	})
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return tickets, total, nil
}

// ListHistory returns the ticket's audit entries, oldest first.
func (s *TicketService) ListHistory(ctx context.Context, ticketID int) ([]domain.TicketHistory, error) {
	ticket, err := s.loadByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.tickets.ListHistory(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return history, nil
}

// UpdateTicket applies patch to the ticket with storage id id and records
// exactly one audit entry attributed to actor. A patch that changes nothing
// is rejected with NO_OP_UPDATE.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, patch TicketPatch, actor domain.Actor) (*domain.Ticket, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	patch = normalizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	current, err := s.tickets.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load ticket: %w", err))
	}
	if patch.Version != nil && *patch.Version != current.Version {
		s.recordUpdate("conflict")
		return nil, versionConflict(current.Version)
	}

	changes := Diff(current, patch)
	if len(changes) == 0 {
		s.recordUpdate("noop")
		return nil, apperrors.NewNoOpUpdate("ticket")
	}

	now := s.now()
	next := current.Clone()
	ApplyChanges(next, changes)
	next.UpdatedAt = &now
	entry := &domain.TicketHistory{
		Action:    domain.ActionTicketUpdated,
		Changes:   changes,
		Actor:     actor,
		CreatedAt: now,
	}

	err = s.tickets.ApplyUpdate(ctx, next, current.Version, entry)
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		s.recordUpdate("conflict")
		return nil, versionConflict(current.Version)
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	case err != nil:
		s.recordUpdate("failed")
		return nil, apperrors.NewInternalError(fmt.Errorf("update ticket: %w", err))
	}

	s.recordUpdate("applied")
	s.logger.Info("ticket updated",
		zap.Int("ticket_id", next.TicketID),
		zap.String("actor_id", actor.ID),
		zap.Int("changes", len(changes)),
		zap.Int64("version", next.Version))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: next.TicketID,
		Actor:    events.ActorFrom(actor),
		Payload:  events.TicketUpdatedPayload{Version: next.Version, Changes: changes},
	})
	return next, nil
}

func (s *TicketService) loadByTicketID(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticketId": ticketID})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load ticket: %w", err))
	}
	return ticket, nil
}

func (s *TicketService) recordUpdate(result string) {
	if s.metrics != nil {
		s.metrics.RecordTicketUpdate(result)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func versionConflict(current int64) error {
	return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"currentVersion": current})
}

func normalizePatch(p TicketPatch) TicketPatch {
	if p.Subject != nil {
		v := strings.TrimSpace(*p.Subject)
		p.Subject = &v
	}
	if p.Description != nil {
		v := strings.TrimSpace(*p.Description)
		p.Description = &v
	}
	if p.AssignedTo.Set && p.AssignedTo.Value != nil && strings.TrimSpace(*p.AssignedTo.Value) == "" {
		p.AssignedTo.Value = nil
	}
	return p
}

func validateCreate(in TicketCreateInput) error {
	details := map[string]any{}
	if !in.IssueType.Valid() {
		details["issueType"] = "invalid"
	}
	if !in.Department.Valid() {
		details["department"] = "invalid"
	}
	if !in.Priority.Valid() {
		details["priority"] = "invalid"
	}
	if in.Subject == "" {
		details["subject"] = "required"
	}
	if in.Description == "" {
		details["description"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func validatePatch(p TicketPatch) error {
	details := map[string]any{}
	if p.IssueType != nil && !p.IssueType.Valid() {
		details["issueType"] = "invalid"
	}
	if p.Department != nil && !p.Department.Valid() {
		details["department"] = "invalid"
	}
	if p.Priority != nil && !p.Priority.Valid() {
		details["priority"] = "invalid"
	}
	if p.Status != nil && !p.Status.Valid() {
		details["status"] = "invalid"
	}
	if p.Subject != nil && *p.Subject == "" {
		details["subject"] = "must not be empty"
	}
	if p.Description != nil && *p.Description == "" {
		details["description"] = "must not be empty"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket update", details)
	}
	return nil
}

func validateListFilter(f TicketListFilter) error {
	details := map[string]any{}
	if f.IssueType != nil && !f.IssueType.Valid() {
		details["issueType"] = "invalid"
	}
	if f.Department != nil && !f.Department.Valid() {
		details["department"] = "invalid"
	}
	if f.Priority != nil && !f.Priority.Valid() {
		details["priority"] = "invalid"
	}
	if f.Status != nil && !f.Status.Valid() {
		details["status"] = "invalid"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid filter", details)
	}
	return nil
}

func parseSort(raw string) (string, bool, error) {
	if raw == "" {
		return repository.SortCreated, false, nil
	}
	desc := strings.HasPrefix(raw, "-")
	key := strings.TrimPrefix(raw, "-")
	switch key {
	case repository.SortCreated, repository.SortUpdated, repository.SortTicketID, repository.SortPriority:
		return key, desc, nil
	}
	return "", false, apperrors.NewValidationError("invalid sort", map[string]any{"sort": raw})
}

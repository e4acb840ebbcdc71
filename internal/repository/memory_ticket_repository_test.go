package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

var (
	_ TicketRepository = (*MemoryTicketRepository)(nil)
	_ UserRepository   = (*MemoryUserRepository)(nil)
)

func newTicket(number int, priority domain.TicketPriority, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{
		TicketID:    number,
		UserID:      "user-1",
		IssueType:   domain.IssueTypeBug,
		Department:  domain.DepartmentSupport,
		Subject:     "subject",
		Description: "description",
		Priority:    priority,
		Status:      status,
	}
}

func TestMemoryCreateRejectsDuplicateTicketID(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	first := newTicket(123456, domain.TicketPriorityLow, domain.TicketStatusOpen)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Version)

	err := repo.Create(ctx, newTicket(123456, domain.TicketPriorityHigh, domain.TicketStatusOpen))
	assert.ErrorIs(t, err, ErrDuplicateTicketID)

	exists, err := repo.TicketIDExists(ctx, 123456)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryGetReturnsCopies(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	created := newTicket(111111, domain.TicketPriorityLow, domain.TicketStatusOpen)
	created.Attachments = []string{"a.png"}
	require.NoError(t, repo.Create(ctx, created))

	got, err := repo.GetByTicketID(ctx, 111111)
	require.NoError(t, err)
	got.Subject = "mutated"
	got.Attachments[0] = "b.png"

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "subject", again.Subject)
	assert.Equal(t, []string{"a.png"}, again.Attachments)

	_, err = repo.GetByTicketID(ctx, 999999)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryListFiltersSortsAndPaginates(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTicket(300000, domain.TicketPriorityHigh, domain.TicketStatusOpen)))
	require.NoError(t, repo.Create(ctx, newTicket(100000, domain.TicketPriorityLow, domain.TicketStatusClosed)))
	require.NoError(t, repo.Create(ctx, newTicket(200000, domain.TicketPriorityUrgent, domain.TicketStatusOpen)))

	all, total, err := repo.List(ctx, TicketFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int{300000, 100000, 200000}, ticketIDs(all), "insertion order by default")

	open := domain.TicketStatusOpen
	filtered, total, err := repo.List(ctx, TicketFilter{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int{300000, 200000}, ticketIDs(filtered))

	byID, _, err := repo.List(ctx, TicketFilter{SortBy: SortTicketID, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []int{300000, 200000, 100000}, ticketIDs(byID))

	byPriority, _, err := repo.List(ctx, TicketFilter{SortBy: SortPriority})
	require.NoError(t, err)
	assert.Equal(t, []int{100000, 300000, 200000}, ticketIDs(byPriority))

	page, total, err := repo.List(ctx, TicketFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int{200000}, ticketIDs(page))

	empty, _, err := repo.List(ctx, TicketFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryApplyUpdateChecksVersion(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()
	created := newTicket(222222, domain.TicketPriorityLow, domain.TicketStatusOpen)
	require.NoError(t, repo.Create(ctx, created))

	now := time.Now()
	update := created.Clone()
	update.Priority = domain.TicketPriorityHigh
	update.UpdatedAt = &now
	entry := &domain.TicketHistory{
		Action:  domain.ActionTicketUpdated,
		Changes: []domain.FieldChange{{Field: domain.FieldPriority, OldValue: "low", NewValue: "high"}},
		Actor:   domain.Actor{ID: "actor"},
	}
	require.NoError(t, repo.ApplyUpdate(ctx, update, 1, entry))
	assert.Equal(t, int64(2), update.Version)
	assert.Equal(t, 1, entry.Seq)

	stale := created.Clone()
	stale.Subject = "stale"
	err := repo.ApplyUpdate(ctx, stale, 1, &domain.TicketHistory{})
	assert.ErrorIs(t, err, ErrVersionConflict)

	history, err := repo.ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "high", history[0].Changes[0].NewValue)

	missing := created.Clone()
	missing.ID = "nope"
	assert.ErrorIs(t, repo.ApplyUpdate(ctx, missing, 1, &domain.TicketHistory{}), pgx.ErrNoRows)
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Email: "ADA@example.com"}), ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Ada Lovelace", got.DisplayName())

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func ticketIDs(tickets []domain.Ticket) []int {
	out := make([]int, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.TicketID)
	}
	return out
}

func TestMemoryCreateKeepsCallerCreatedAt(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	created := time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)
	ticket := newTicket(515151, domain.TicketPriorityLow, domain.TicketStatusOpen)
	ticket.CreatedAt = created
	require.NoError(t, repo.Create(ctx, ticket))

	stored, err := repo.GetByTicketID(ctx, 515151)
	require.NoError(t, err)
	assert.Equal(t, created, stored.CreatedAt)
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

type memoryTicket struct {
	seq     int
	ticket  *domain.Ticket
	history []domain.TicketHistory
}

// MemoryTicketRepository keeps tickets and their history in process memory.
// Every method takes the same lock, so a ticket and its history change together.
type MemoryTicketRepository struct {
	mu       sync.RWMutex
	nextSeq  int
	byID     map[string]*memoryTicket
	byNumber map[int]string
	now      func() time.Time
}

// NewMemoryTicketRepository creates an empty store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		byID:     make(map[string]*memoryTicket),
		byNumber: make(map[int]string),
		now:      time.Now,
	}
}

func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byNumber[ticket.TicketID]; taken {
		return ErrDuplicateTicketID
	}
	ticket.ID = uuid.NewString()
	ticket.Version = 1
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.now()
	}
	if ticket.Attachments == nil {
		ticket.Attachments = []string{}
	}
	r.nextSeq++
	r.byID[ticket.ID] = &memoryTicket{seq: r.nextSeq, ticket: ticket.Clone()}
	r.byNumber[ticket.TicketID] = ticket.ID
	return nil
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rec.ticket.Clone(), nil
}

func (r *MemoryTicketRepository) GetByTicketID(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	r.mu.RLock()
	id, ok := r.byNumber[ticketID]
	r.mu.RUnlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryTicketRepository) TicketIDExists(_ context.Context, ticketID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byNumber[ticketID]
	return ok, nil
}

func (r *MemoryTicketRepository) List(_ context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	r.mu.RLock()
	matched := make([]*memoryTicket, 0, len(r.byID))
	for _, rec := range r.byID {
		if matchesFilter(rec.ticket, filter) {
			matched = append(matched, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.Descending {
			a, b = b, a
		}
		return lessBy(filter.SortBy, a, b)
	})

	total := len(matched)
	start, end := 0, total
	if filter.Limit > 0 {
		start = filter.Offset
		if start < 0 {
			start = 0
		}
		if start > total {
			start = total
		}
		end = start + filter.Limit
		if end > total {
			end = total
		}
	}

	result := make([]domain.Ticket, 0, end-start)
	for _, rec := range matched[start:end] {
		result = append(result, *rec.ticket.Clone())
	}
	return result, total, nil
}

func matchesFilter(t *domain.Ticket, f TicketFilter) bool {
	if f.IssueType != nil && t.IssueType != *f.IssueType {
		return false
	}
	if f.Department != nil && t.Department != *f.Department {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

func lessBy(key string, a, b *memoryTicket) bool {
	switch key {
	case SortUpdated:
		ta, tb := touchedAt(a.ticket), touchedAt(b.ticket)
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
	case SortTicketID:
		return a.ticket.TicketID < b.ticket.TicketID
	case SortPriority:
		ra, rb := domain.PriorityRank(a.ticket.Priority), domain.PriorityRank(b.ticket.Priority)
		if ra != rb {
			return ra < rb
		}
	}
	return a.seq < b.seq
}

func touchedAt(t *domain.Ticket) time.Time {
	if t.UpdatedAt != nil {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

func (r *MemoryTicketRepository) ApplyUpdate(_ context.Context, ticket *domain.Ticket, expectedVersion int64, entry *domain.TicketHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if rec.ticket.Version != expectedVersion {
		return ErrVersionConflict
	}

	stored := ticket.Clone()
	stored.TicketID = rec.ticket.TicketID
	stored.UserID = rec.ticket.UserID
	stored.CreatedAt = rec.ticket.CreatedAt
	stored.Version = expectedVersion + 1
	rec.ticket = stored

	entry.ID = uuid.NewString()
	entry.TicketID = ticket.ID
	entry.Seq = len(rec.history) + 1
	saved := *entry
	saved.Changes = append([]domain.FieldChange(nil), entry.Changes...)
	rec.history = append(rec.history, saved)

	ticket.Version = stored.Version
	return nil
}

func (r *MemoryTicketRepository) ListHistory(_ context.Context, id string) ([]domain.TicketHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return []domain.TicketHistory{}, nil
	}
	out := make([]domain.TicketHistory, len(rec.history))
	for i, h := range rec.history {
		h.Changes = append([]domain.FieldChange(nil), h.Changes...)
		out[i] = h
	}
	return out, nil
}

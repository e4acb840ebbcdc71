package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

var (
	// ErrDuplicateTicketID is returned by Create when the ticket id is already taken.
	ErrDuplicateTicketID = errors.New("ticket id already exists")
	// ErrVersionConflict is returned by ApplyUpdate when the stored version moved.
	ErrVersionConflict = errors.New("ticket version conflict")
)

// Sort keys accepted by TicketFilter.
const (
	SortCreated  = "createdDate"
	SortUpdated  = "updatedDate"
	SortTicketID = "ticketId"
	SortPriority = "priority"
)

const uniqueViolation = "23505"

// TicketFilter captures list parameters. Nil fields are not filtered on.
type TicketFilter struct {
	IssueType  *domain.IssueType
	Department *domain.Department
	Priority   *domain.TicketPriority
	Status     *domain.TicketStatus
	SortBy     string
	Descending bool
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket and ticket history persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByTicketID(ctx context.Context, ticketID int) (*domain.Ticket, error)
	TicketIDExists(ctx context.Context, ticketID int) (bool, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
	// ApplyUpdate writes the ticket's mutable fields and appends entry in one
	// atomic step, provided the stored version still equals expectedVersion.
	ApplyUpdate(ctx context.Context, ticket *domain.Ticket, expectedVersion int64, entry *domain.TicketHistory) error
	ListHistory(ctx context.Context, id string) ([]domain.TicketHistory, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, user_id, issue_type, department, subject, description,
               priority, status, assigned_to, attachments, version, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, user_id, issue_type, department, subject, description, priority, status, assigned_to, attachments, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, version, created_at`
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	err := r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.UserID,
		ticket.IssueType,
		ticket.Department,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		attachments,
		ticket.CreatedAt,
	).Scan(&ticket.ID, &ticket.Version, &ticket.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateTicketID
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id=$1`
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *ticketRepository) TicketIDExists(ctx context.Context, ticketID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE ticket_id=$1)`, ticketID).Scan(&exists)
	return exists, err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.IssueType != nil {
		args = append(args, *filter.IssueType)
		clauses = append(clauses, fmt.Sprintf("issue_type=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s`, ticketColumns, where, orderClause(filter))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *ticket)
	}
	return result, total, rows.Err()
}

func orderClause(filter TicketFilter) string {
	dir := "ASC"
	if filter.Descending {
		dir = "DESC"
	}
	switch filter.SortBy {
	case SortUpdated:
		return fmt.Sprintf("COALESCE(updated_at, created_at) %s, seq %s", dir, dir)
	case SortTicketID:
		return "ticket_id " + dir
	case SortPriority:
		return fmt.Sprintf(`CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 WHEN 'urgent' THEN 3 END %s, seq %s`, dir, dir)
	default:
		return "seq " + dir
	}
}

func (r *ticketRepository) ApplyUpdate(ctx context.Context, ticket *domain.Ticket, expectedVersion int64, entry *domain.TicketHistory) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE tickets SET issue_type=$1, department=$2, subject=$3, description=$4, priority=$5,
            status=$6, assigned_to=$7, attachments=$8, updated_at=$9, version=version+1
        WHERE id=$10 AND version=$11
        RETURNING version`
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	var newVersion int64
	err = tx.QueryRow(ctx, update,
		ticket.IssueType,
		ticket.Department,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		attachments,
		ticket.UpdatedAt,
		ticket.ID,
		expectedVersion,
	).Scan(&newVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check ticket: %w", err)
		}
		if !exists {
			return pgx.ErrNoRows
		}
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}

	if err := insertHistory(ctx, tx, ticket.ID, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit ticket update: %w", err)
	}
	ticket.Version = newVersion
	return nil
}

func (r *ticketRepository) ListHistory(ctx context.Context, id string) ([]domain.TicketHistory, error) {
	return listHistory(ctx, r.pool, id)
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.UserID,
		&ticket.IssueType,
		&ticket.Department,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.Attachments,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

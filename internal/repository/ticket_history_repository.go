package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// insertHistory appends entry with the next sequence number for the ticket.
// It must run inside the transaction that updated (and so row-locked) the ticket.
func insertHistory(ctx context.Context, tx pgx.Tx, ticketID string, entry *domain.TicketHistory) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("encode history changes: %w", err)
	}
	const query = `
        INSERT INTO ticket_history (ticket_id, seq, action, changes, actor_id, actor_email, actor_name, created_at)
        VALUES ($1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM ticket_history WHERE ticket_id=$1), $2, $3, $4, $5, $6, $7)
        RETURNING id, seq`
	if err := tx.QueryRow(ctx, query,
		ticketID,
		entry.Action,
		changes,
		entry.Actor.ID,
		entry.Actor.Email,
		entry.Actor.Name,
		entry.CreatedAt,
	).Scan(&entry.ID, &entry.Seq); err != nil {
		return fmt.Errorf("append ticket history: %w", err)
	}
	entry.TicketID = ticketID
	return nil
}

func listHistory(ctx context.Context, q querier, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, seq, action, changes, actor_id, actor_email, actor_name, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY seq ASC`
	rows, err := q.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket history: %w", err)
	}
	defer rows.Close()

	result := []domain.TicketHistory{}
	for rows.Next() {
		var (
			history domain.TicketHistory
			raw     []byte
		)
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.Seq,
			&history.Action,
			&raw,
			&history.Actor.ID,
			&history.Actor.Email,
			&history.Actor.Name,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &history.Changes); err != nil {
			return nil, fmt.Errorf("decode history changes: %w", err)
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

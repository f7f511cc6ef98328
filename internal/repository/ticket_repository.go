package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Update and delete append
// the audit snapshot and apply the mutation in a single transaction.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListVisible(ctx context.Context, ownerID *int64) ([]domain.TicketView, error)
	UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, history *domain.TicketHistory) error
	DeleteWithHistory(ctx context.Context, id int64, history *domain.TicketHistory) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (name, description, status_id, user_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Name,
		ticket.Description,
		ticket.StatusID,
		ticket.UserID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, name, description, status_id, user_id, created_at, updated_at
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Name,
		&ticket.Description,
		&ticket.StatusID,
		&ticket.UserID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, name, description, status_id, user_id, created_at, updated_at
        FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Name,
			&ticket.Description,
			&ticket.StatusID,
			&ticket.UserID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) ListVisible(ctx context.Context, ownerID *int64) ([]domain.TicketView, error) {
	base := `
        SELECT t.id, t.name, t.description, t.status_id, s.name, s.color, t.user_id, u.name, t.created_at
        FROM tickets t
        JOIN users u ON u.id = t.user_id
        JOIN statuses s ON s.id = t.status_id`

	var (
		rows pgx.Rows
		err  error
	)
	if ownerID != nil {
		rows, err = r.pool.Query(ctx, base+` WHERE t.user_id=$1 ORDER BY t.created_at DESC`, *ownerID)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY t.created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketView
	for rows.Next() {
		var view domain.TicketView
		if err := rows.Scan(
			&view.TicketID,
			&view.Name,
			&view.Description,
			&view.StatusID,
			&view.StatusName,
			&view.StatusColor,
			&view.UserID,
			&view.UserName,
			&view.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, history *domain.TicketHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := insertHistoryTx(ctx, tx, history); err != nil {
		return err
	}

	const query = `
        UPDATE tickets SET name=$1, description=$2, status_id=$3, user_id=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.Name,
		ticket.Description,
		ticket.StatusID,
		ticket.UserID,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) DeleteWithHistory(ctx context.Context, id int64, history *domain.TicketHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := insertHistoryTx(ctx, tx, history); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func insertHistoryTx(ctx context.Context, tx pgx.Tx, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, name, description, status_id, updated_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return tx.QueryRow(ctx, query,
		history.TicketID,
		history.Name,
		history.Description,
		history.StatusID,
		history.UpdatedBy,
	).Scan(&history.ID, &history.CreatedAt)
}

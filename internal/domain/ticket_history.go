package domain

import "time"

// TicketHistory is an immutable audit snapshot of a ticket's state, appended
// before every update or delete. Rows survive the deletion of their ticket.
type TicketHistory struct {
	ID          int64
	TicketID    int64
	Name        string
	Description string
	StatusID    int64
	UpdatedBy   int64
	CreatedAt   time.Time
}

// SnapshotOf builds the history entry capturing a ticket's current persisted
// state ahead of a mutation by updatedBy.
func SnapshotOf(ticket *Ticket, updatedBy int64) *TicketHistory {
	return &TicketHistory{
		TicketID:    ticket.ID,
		Name:        ticket.Name,
		Description: ticket.Description,
		StatusID:    ticket.StatusID,
		UpdatedBy:   updatedBy,
	}
}

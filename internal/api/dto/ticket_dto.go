package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketRequest payload for create and update.
type TicketRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StatusID    int64  `json:"statusId"`
	UserID      int64  `json:"userId"`
}

// TicketResponse mirrors a persisted ticket.
type TicketResponse struct {
	TicketID    int64     `json:"ticketId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StatusID    int64     `json:"statusId"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TicketViewResponse is a ticket with owner and status labels for scoped
// listings.
type TicketViewResponse struct {
	TicketID    int64     `json:"ticketId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StatusID    int64     `json:"statusId"`
	StatusName  string    `json:"statusName"`
	StatusColor string    `json:"statusColor"`
	UserID      int64     `json:"userId"`
	UserName    string    `json:"userName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID          int64     `json:"id"`
	TicketID    int64     `json:"ticketId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StatusID    int64     `json:"statusId"`
	UpdatedBy   int64     `json:"updatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:    ticket.ID,
		Name:        ticket.Name,
		Description: ticket.Description,
		StatusID:    ticket.StatusID,
		UserID:      ticket.UserID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketViewResponse maps a joined listing row.
func NewTicketViewResponse(view domain.TicketView) TicketViewResponse {
	return TicketViewResponse{
		TicketID:    view.TicketID,
		Name:        view.Name,
		Description: view.Description,
		StatusID:    view.StatusID,
		StatusName:  view.StatusName,
		StatusColor: view.StatusColor,
		UserID:      view.UserID,
		UserName:    view.UserName,
		CreatedAt:   view.CreatedAt,
	}
}

// NewTicketHistoryResponse maps an audit entry.
func NewTicketHistoryResponse(history domain.TicketHistory) TicketHistoryResponse {
	return TicketHistoryResponse{
		ID:          history.ID,
		TicketID:    history.TicketID,
		Name:        history.Name,
		Description: history.Description,
		StatusID:    history.StatusID,
		UpdatedBy:   history.UpdatedBy,
		CreatedAt:   history.CreatedAt,
	}
}

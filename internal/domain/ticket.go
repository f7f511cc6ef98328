package domain

import "time"

// Status is reference data describing a ticket workflow label and its
// display color. Rows are seeded once and never mutated.
type Status struct {
	ID    int64
	Name  string
	Color string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Name        string
	Description string
	StatusID    int64
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketView is a ticket joined with its owner name and status label for
// scoped listings.
type TicketView struct {
	TicketID    int64
	Name        string
	Description string
	StatusID    int64
	StatusName  string
	StatusColor string
	UserID      int64
	UserName    string
	CreatedAt   time.Time
}

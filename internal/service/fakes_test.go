package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// fakeStore is an in-memory stand-in for every repository interface. Mutating
// operations mimic the transactional contract: history and mutation are
// applied together.
type fakeStore struct {
	users        map[int64]domain.User
	tickets      map[int64]domain.Ticket
	histories    []domain.TicketHistory
	statuses     map[int64]domain.Status
	nextUserID   int64
	nextTicketID int64
	now          time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]domain.User),
		tickets: make(map[int64]domain.Ticket),
		statuses: map[int64]domain.Status{
			1: {ID: 1, Name: "Open", Color: "#3B82F6"},
			2: {ID: 2, Name: "In Progress", Color: "#F59E0B"},
			3: {ID: 3, Name: "Resolved", Color: "#10B981"},
			4: {ID: 4, Name: "Closed", Color: "#6B7280"},
		},
		now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeStore) addUser(name, email string, role domain.Role) domain.User {
	f.nextUserID++
	user := domain.User{ID: f.nextUserID, Name: name, Email: email, RoleID: role, CreatedAt: f.tick()}
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) addTicket(name, description string, statusID, userID int64) domain.Ticket {
	f.nextTicketID++
	ticket := domain.Ticket{
		ID: f.nextTicketID, Name: name, Description: description,
		StatusID: statusID, UserID: userID, CreatedAt: f.tick(),
	}
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = ticket
	return ticket
}

// UserRepository

func (f *fakeStore) Create(ctx context.Context, user *domain.User) error {
	f.nextUserID++
	user.ID = f.nextUserID
	user.CreatedAt = f.tick()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStore) List(ctx context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ticketRepo adapts fakeStore to TicketRepository; a separate type keeps the
// Create methods of users and tickets from clashing.
type ticketRepo struct{ store *fakeStore }

func (r *ticketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.nextTicketID++
	ticket.ID = r.store.nextTicketID
	ticket.CreatedAt = r.store.tick()
	ticket.UpdatedAt = ticket.CreatedAt
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *ticketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *ticketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(r.store.tickets))
	for _, ticket := range r.store.tickets {
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *ticketRepo) ListVisible(ctx context.Context, ownerID *int64) ([]domain.TicketView, error) {
	tickets, _ := r.ListAll(ctx)
	result := make([]domain.TicketView, 0, len(tickets))
	for _, ticket := range tickets {
		if ownerID != nil && ticket.UserID != *ownerID {
			continue
		}
		status := r.store.statuses[ticket.StatusID]
		result = append(result, domain.TicketView{
			TicketID:    ticket.ID,
			Name:        ticket.Name,
			Description: ticket.Description,
			StatusID:    ticket.StatusID,
			StatusName:  status.Name,
			StatusColor: status.Color,
			UserID:      ticket.UserID,
			UserName:    r.store.users[ticket.UserID].Name,
			CreatedAt:   ticket.CreatedAt,
		})
	}
	return result, nil
}

func (r *ticketRepo) UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, history *domain.TicketHistory) error {
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.appendHistory(history)
	ticket.UpdatedAt = r.store.tick()
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *ticketRepo) DeleteWithHistory(ctx context.Context, id int64, history *domain.TicketHistory) error {
	if _, ok := r.store.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	r.appendHistory(history)
	delete(r.store.tickets, id)
	return nil
}

func (r *ticketRepo) appendHistory(history *domain.TicketHistory) {
	history.ID = int64(len(r.store.histories) + 1)
	history.CreatedAt = r.store.tick()
	r.store.histories = append(r.store.histories, *history)
}

// historyRepo adapts fakeStore to TicketHistoryRepository.
type historyRepo struct{ store *fakeStore }

func (r *historyRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.store.histories {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// statusRepo adapts fakeStore to StatusRepository.
type statusRepo struct{ store *fakeStore }

func (r *statusRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.store.statuses[id]
	return ok, nil
}

func (r *statusRepo) List(ctx context.Context) ([]domain.Status, error) {
	result := make([]domain.Status, 0, len(r.store.statuses))
	for _, status := range r.store.statuses {
		result = append(result, status)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

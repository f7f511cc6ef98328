package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows: authorization, audit snapshots
// and persistence.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	statuses   repository.StatusRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	UserRepo    repository.UserRepository
	StatusRepo  repository.StatusRepository
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name        string
	Description string
	StatusID    int64
	UserID      int64
}

// TicketUpdateInput describes ticket edit payload. UserID is honored only for
// roles that may reassign ownership.
type TicketUpdateInput struct {
	Name        string
	Description string
	StatusID    int64
	UserID      int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		statuses:   deps.StatusRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListAll returns every ticket, newest first. No authentication is required.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

// ListVisible returns tickets scoped by the requester's role: all tickets for
// roles with view-all, otherwise only owned ones. Rows carry owner and status
// labels.
func (s *TicketService) ListVisible(ctx context.Context, principal *auth.Principal) ([]domain.TicketView, error) {
	var ownerID *int64
	if !principal.Role.CanViewAllTickets() {
		id := principal.UserID
		ownerID = &id
	}
	return s.tickets.ListVisible(ctx, ownerID)
}

// Create persists a new ticket after checking the owning user exists.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	if err := s.checkStatus(ctx, input.StatusID); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		StatusID:    input.StatusID,
		UserID:      input.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: ticket.UserID},
		Payload: events.TicketCreatedPayload{
			Name:     ticket.Name,
			StatusID: ticket.StatusID,
			OwnerID:  ticket.UserID,
		},
	})
	return ticket, nil
}

// Update edits a ticket for the requester. The pre-mutation snapshot is
// appended to the audit trail in the same transaction as the update.
func (s *TicketService) Update(ctx context.Context, principal *auth.Principal, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.Role.CanManageTicket(principal.UserID, ticket.UserID) {
		return nil, apperrors.NewForbidden("you can only edit your own ticket")
	}
	if err := s.checkStatus(ctx, input.StatusID); err != nil {
		return nil, err
	}

	snapshot := domain.SnapshotOf(ticket, principal.UserID)
	oldStatusID := ticket.StatusID
	oldOwnerID := ticket.UserID

	ticket.Name = strings.TrimSpace(input.Name)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.StatusID = input.StatusID
	if input.UserID != 0 && input.UserID != ticket.UserID && principal.Role.CanReassignTickets() {
		if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("user")
			}
			return nil, err
		}
		ticket.UserID = input.UserID
	}

	if err := s.tickets.UpdateWithHistory(ctx, ticket, snapshot); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: principal.UserID, Role: principal.Role},
		Payload: events.TicketUpdatedPayload{
			OldStatusID: oldStatusID,
			NewStatusID: ticket.StatusID,
			OldOwnerID:  oldOwnerID,
			NewOwnerID:  ticket.UserID,
		},
	})
	return ticket, nil
}

// Delete removes a ticket for the requester. The pre-mutation snapshot is
// appended in the same transaction as the delete; the audit rows outlive the
// ticket.
func (s *TicketService) Delete(ctx context.Context, principal *auth.Principal, ticketID int64) error {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !principal.Role.CanManageTicket(principal.UserID, ticket.UserID) {
		return apperrors.NewForbidden("you can only delete your own ticket")
	}

	snapshot := domain.SnapshotOf(ticket, principal.UserID)
	if err := s.tickets.DeleteWithHistory(ctx, ticket.ID, snapshot); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: principal.UserID, Role: principal.Role},
		Payload: events.TicketDeletedPayload{
			Name:    ticket.Name,
			OwnerID: ticket.UserID,
		},
	})
	return nil
}

// ListHistory returns the audit trail of a ticket, oldest first, to its owner
// or any role with view-all.
func (s *TicketService) ListHistory(ctx context.Context, principal *auth.Principal, ticketID int64) ([]domain.TicketHistory, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !principal.Role.CanViewAllTickets() && ticket.UserID != principal.UserID {
		return nil, apperrors.NewForbidden("you can only view your own ticket history")
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *TicketService) getTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) checkStatus(ctx context.Context, statusID int64) error {
	exists, err := s.statuses.Exists(ctx, statusID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewValidation("unknown status id")
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

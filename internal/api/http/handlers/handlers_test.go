package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apphttp "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

const testSecret = "test-secret-key-for-unit-tests"

// memStore backs every repository interface for handler tests.
type memStore struct {
	users        map[int64]domain.User
	tickets      map[int64]domain.Ticket
	histories    []domain.TicketHistory
	statuses     map[int64]domain.Status
	nextUserID   int64
	nextTicketID int64
	now          time.Time
}

func newMemStore() *memStore {
	return &memStore{
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

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memStore) addUser(name, email string, role domain.Role) domain.User {
	m.nextUserID++
	user := domain.User{ID: m.nextUserID, Name: name, Email: email, RoleID: role, CreatedAt: m.tick()}
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user
}

func (m *memStore) addTicket(name, description string, statusID, userID int64) domain.Ticket {
	m.nextTicketID++
	ticket := domain.Ticket{
		ID: m.nextTicketID, Name: name, Description: description,
		StatusID: statusID, UserID: userID, CreatedAt: m.tick(),
	}
	ticket.UpdatedAt = ticket.CreatedAt
	m.tickets[ticket.ID] = ticket
	return ticket
}

// UserRepository

func (m *memStore) Create(ctx context.Context, user *domain.User) error {
	m.nextUserID++
	user.ID = m.nextUserID
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) List(ctx context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memTicketRepo struct{ store *memStore }

func (r *memTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.store.nextTicketID++
	ticket.ID = r.store.nextTicketID
	ticket.CreatedAt = r.store.tick()
	ticket.UpdatedAt = ticket.CreatedAt
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(r.store.tickets))
	for _, ticket := range r.store.tickets {
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *memTicketRepo) ListVisible(ctx context.Context, ownerID *int64) ([]domain.TicketView, error) {
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

func (r *memTicketRepo) UpdateWithHistory(ctx context.Context, ticket *domain.Ticket, history *domain.TicketHistory) error {
	if _, ok := r.store.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	history.ID = int64(len(r.store.histories) + 1)
	history.CreatedAt = r.store.tick()
	r.store.histories = append(r.store.histories, *history)
	ticket.UpdatedAt = r.store.tick()
	r.store.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTicketRepo) DeleteWithHistory(ctx context.Context, id int64, history *domain.TicketHistory) error {
	if _, ok := r.store.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	history.ID = int64(len(r.store.histories) + 1)
	history.CreatedAt = r.store.tick()
	r.store.histories = append(r.store.histories, *history)
	delete(r.store.tickets, id)
	return nil
}

type memHistoryRepo struct{ store *memStore }

func (r *memHistoryRepo) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.store.histories {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type memStatusRepo struct{ store *memStore }

func (r *memStatusRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.store.statuses[id]
	return ok, nil
}

func (r *memStatusRepo) List(ctx context.Context) ([]domain.Status, error) {
	result := make([]domain.Status, 0, len(r.store.statuses))
	for _, status := range r.store.statuses {
		result = append(result, status)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// buildTestApp wires real services over the in-memory store with the full
// middleware chain and routing table.
func buildTestApp(t *testing.T, store *memStore) (*fiber.App, *service.AuthService) {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             testSecret,
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: store})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  &memTicketRepo{store: store},
		HistoryRepo: &memHistoryRepo{store: store},
		UserRepo:    store,
		StatusRepo:  &memStatusRepo{store: store},
	})

	app := fiber.New()
	apphttp.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	apphttp.RegisterRoutes(app, apphttp.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(authService, false),
		AuthMiddleware: auth.NewMiddleware(authService.TokenManager(), nil),
	})
	return app, authService
}

func bearerFor(t *testing.T, authService *service.AuthService, user domain.User) string {
	t.Helper()
	token, _, err := authService.TokenManager().Generate(&user)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestGetAllTicketsIsPublic(t *testing.T) {
	store := newMemStore()
	user := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	store.addTicket("vpn broken", "cannot connect", 1, user.ID)
	app, _ := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodGet, "/api/tickets/getAll", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Success", body["message"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestGetAllTicketsEmpty(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	resp := doJSON(t, app, http.MethodGet, "/api/tickets/getAll", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "No data found", body["message"])
}

func TestGetTicketRequiresToken(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	resp := doJSON(t, app, http.MethodGet, "/api/tickets/get-ticket", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["error"])
}

func TestGetTicketScopesByRole(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	bob := store.addUser("bob", "bob@example.com", domain.RoleSupport)
	admin := store.addUser("root", "root@example.com", domain.RoleAdmin)
	store.addTicket("a", "d", 1, alice.ID)
	store.addTicket("b", "d", 2, bob.ID)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodGet, "/api/tickets/get-ticket", bearerFor(t, authService, admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body["data"], 2)

	resp = doJSON(t, app, http.MethodGet, "/api/tickets/get-ticket", bearerFor(t, authService, alice), nil)
	body = decodeBody(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, "alice", row["userName"])
	assert.Equal(t, "Open", row["statusName"])
	assert.Equal(t, "#3B82F6", row["statusColor"])
}

func TestCreateTicketUnknownUser(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	resp := doJSON(t, app, http.MethodPost, "/api/tickets/create", "", map[string]any{
		"name": "vpn broken", "description": "cannot connect", "statusId": 1, "userId": 404,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "user not found", body["error"])
}

func TestCreateTicketSuccess(t *testing.T) {
	store := newMemStore()
	user := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	app, _ := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPost, "/api/tickets/create", "", map[string]any{
		"name": "vpn broken", "description": "cannot connect", "statusId": 1, "userId": user.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Ticket created successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "vpn broken", data["name"])
	assert.Equal(t, float64(1), data["statusId"])
	assert.NotZero(t, data["ticketId"])
}

func TestUpdateTicketForbiddenForNonOwner(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	intruder := store.addUser("bob", "bob@example.com", domain.RoleSupport)
	ticket := store.addTicket("vpn broken", "cannot connect", 1, owner.ID)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPut, "/api/tickets/update/1", bearerFor(t, authService, intruder), map[string]any{
		"name": "hijacked", "description": "x", "statusId": 2,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "vpn broken", store.tickets[ticket.ID].Name)
	assert.Empty(t, store.histories)
}

func TestUpdateTicketMissing(t *testing.T) {
	store := newMemStore()
	admin := store.addUser("root", "root@example.com", domain.RoleAdmin)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPut, "/api/tickets/update/99", bearerFor(t, authService, admin), map[string]any{
		"name": "x", "description": "y", "statusId": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteTicketWritesAudit(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	ticket := store.addTicket("vpn broken", "cannot connect", 1, owner.ID)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodDelete, "/api/tickets/delete/1", bearerFor(t, authService, owner), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Ticket deleted successfully", body["message"])
	assert.NotContains(t, store.tickets, ticket.ID)
	require.Len(t, store.histories, 1)
	assert.Equal(t, "vpn broken", store.histories[0].Name)
	assert.Equal(t, owner.ID, store.histories[0].UpdatedBy)
}

func TestListUsersAdminOnly(t *testing.T) {
	store := newMemStore()
	support := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	admin := store.addUser("root", "root@example.com", domain.RoleAdmin)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodGet, "/api/users/getAll", bearerFor(t, authService, support), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/users/getAll", bearerFor(t, authService, admin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Users retrieved successfully", body["message"])
	data := body["data"].([]any)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "Support", first["roleName"])
	assert.NotContains(t, first, "password")
}

func TestCreateUserValidation(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	cases := []map[string]any{
		{"name": "alice", "email": "not-an-email", "password": "abc1!x", "roleId": 2},
		{"name": "alice", "email": "alice@example.com", "password": "short", "roleId": 2},
		{"name": "alice", "email": "alice@example.com", "password": "nodigits!", "roleId": 2},
	}
	for _, payload := range cases {
		resp := doJSON(t, app, http.MethodPost, "/api/users/create", "", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestSignupSetsSessionCookie(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	resp := doJSON(t, app, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": "alice", "email": "alice@example.com", "password": "abc1!x", "roleId": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	require.NotNil(t, session, "signup must set the session cookie")
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)

	body := decodeBody(t, resp)
	assert.Equal(t, "Create successful", body["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemStore()
	app, _ := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": "alice", "email": "alice@example.com", "password": "abc1!x", "roleId": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-pass1!",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "invalid password", body["error"])
	assert.NotContains(t, body, "data", "no token may be issued")
}

func TestLoginSuccess(t *testing.T) {
	store := newMemStore()
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPost, "/api/users/create", "", map[string]any{
		"name": "root", "email": "root@example.com", "password": "abc1!x", "roleId": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "root@example.com", "password": "abc1!x",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Login successful", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Admin", data["roleName"])

	token, ok := data["token"].(string)
	require.True(t, ok)
	claims, err := authService.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.RoleID)
	assert.Equal(t, "root@example.com", claims.Email)
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _ := buildTestApp(t, newMemStore())

	resp := doJSON(t, app, http.MethodPost, "/api/users/logout", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Logout successful", body["message"])

	var session *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
}

func TestTicketHistoryEndpoint(t *testing.T) {
	store := newMemStore()
	owner := store.addUser("alice", "alice@example.com", domain.RoleSupport)
	intruder := store.addUser("bob", "bob@example.com", domain.RoleSupport)
	store.addTicket("vpn broken", "cannot connect", 1, owner.ID)
	app, authService := buildTestApp(t, store)

	resp := doJSON(t, app, http.MethodPut, "/api/tickets/update/1", bearerFor(t, authService, owner), map[string]any{
		"name": "renamed", "description": "cannot connect", "statusId": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/tickets/history/1", bearerFor(t, authService, owner), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "vpn broken", entry["name"], "history holds the pre-mutation snapshot")

	resp = doJSON(t, app, http.MethodGet, "/api/tickets/history/1", bearerFor(t, authService, intruder), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

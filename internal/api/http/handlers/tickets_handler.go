package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// GetAll handles GET /api/tickets/getAll. No authentication required.
func (h *TicketsHandler) GetAll(c *fiber.Ctx) error {
	tickets, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	if len(items) == 0 {
		return c.JSON(fiber.Map{"message": "No data found", "data": items})
	}
	return c.JSON(fiber.Map{"message": "Success", "data": items})
}

// GetByUser handles GET /api/tickets/get-ticket, scoped by the bearer token's
// role.
func (h *TicketsHandler) GetByUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	views, err := h.service.ListVisible(c.UserContext(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.TicketViewResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.NewTicketViewResponse(view))
	}
	if len(items) == 0 {
		return c.JSON(fiber.Map{"message": "No data found", "data": items})
	}
	return c.JSON(fiber.Map{"message": "Success", "data": items})
}

// Create handles POST /api/tickets/create.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid payload")
	}
	if req.Name == "" || req.Description == "" || req.StatusID == 0 || req.UserID == 0 {
		return apperrors.NewValidation("name, description, statusId and userId required")
	}

	ticket, err := h.service.Create(c.UserContext(), service.TicketCreateInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"data":    dto.NewTicketResponse(ticket),
	})
}

// Update handles PUT /api/tickets/update/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid payload")
	}
	if req.Name == "" || req.Description == "" || req.StatusID == 0 {
		return apperrors.NewValidation("name, description and statusId required")
	}

	ticket, err := h.service.Update(c.UserContext(), principal, ticketID, service.TicketUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		StatusID:    req.StatusID,
		UserID:      req.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket updated successfully",
		"data":    dto.NewTicketResponse(ticket),
	})
}

// Delete handles DELETE /api/tickets/delete/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal, ticketID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted successfully"})
}

// History handles GET /api/tickets/history/:id.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("no token provided")
	}
	ticketID, err := parseID(c)
	if err != nil {
		return err
	}
	entries, err := h.service.ListHistory(c.UserContext(), principal, ticketID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewTicketHistoryResponse(entry))
	}
	if len(items) == 0 {
		return c.JSON(fiber.Map{"message": "No data found", "data": items})
	}
	return c.JSON(fiber.Map{"message": "Success", "data": items})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation("invalid ticket id")
	}
	return id, nil
}

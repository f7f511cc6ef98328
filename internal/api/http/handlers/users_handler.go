package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const sessionCookieName = "token"

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth          *service.AuthService
	secureCookies bool
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, secureCookies bool) *UsersHandler {
	return &UsersHandler{auth: authService, secureCookies: secureCookies}
}

// GetAll handles GET /api/users/getAll. Admin only, enforced by the router.
func (h *UsersHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"message": "Users retrieved successfully",
		"data":    items,
	})
}

// Create handles POST /api/users/create. On success a signed token is set as
// an httpOnly session cookie.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid payload")
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password, req.RoleID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Create successful",
		"data":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidation("email and password required")
	}

	user, token, _, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data": dto.LoginResponse{
			UserID:   user.ID,
			UserName: user.Name,
			Email:    user.Email,
			RoleID:   user.RoleID,
			RoleName: user.RoleID.String(),
			Token:    token,
		},
	})
}

// Logout handles POST /api/users/logout. The session cookie is cleared and
// the presented token, if any, is revoked.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(sessionCookieName)
	if token == "" {
		if header := c.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}
	}
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.JSON(fiber.Map{"message": "Logout successful"})
}

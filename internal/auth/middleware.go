package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, taken from token claims.
type Principal struct {
	UserID int64
	Email  string
	Role   domain.Role
	// TokenID and TokenExpiry are carried for revocation on logout.
	TokenID     string
	TokenExpiry time.Time
}

// TokenRevoker tracks tokens invalidated before their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Middleware validates bearer tokens and stores the principal in locals.
type Middleware struct {
	tokens  *TokenManager
	revoker TokenRevoker
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, revoker TokenRevoker) *Middleware {
	return &Middleware{tokens: tokens, revoker: revoker}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("no token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated("invalid or expired token")
	}

	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.NewInternal(err)
		}
		if revoked {
			return apperrors.NewUnauthenticated("token revoked")
		}
	}

	principal := &Principal{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    claims.RoleID,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.TokenExpiry = claims.ExpiresAt.Time
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAdmin ensures the caller holds the Admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("no token provided")
		}
		if !principal.Role.CanListUsers() {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}

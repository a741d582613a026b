package middleware

import (
	"net/http"
	"strings"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"github.com/labstack/echo/v4"
)

// Context keys set by RequireAuth.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

type AuthMiddleware struct {
	tokens *auth.Manager
	users  repository.UserRepository
}

func NewAuthMiddleware(tokens *auth.Manager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth validates the bearer token and loads the account so revoked or
// deactivated users are rejected even with a live token.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		claims, err := m.tokens.Parse(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		user, err := m.users.FindByID(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		if !user.IsActive {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "inactive_user"})
		}
		c.Set(CtxUserID, user.ID)
		c.Set(CtxRole, user.Role)
		return next(c)
	}
}

// RequireSeller passes seller and admin roles.
func (m *AuthMiddleware) RequireSeller(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(CtxRole).(model.Role)
		if !role.CanSell() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "seller role required"})
		}
		return next(c)
	}
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, _ := c.Get(CtxRole).(model.Role)
		if role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin role required"})
		}
		return next(c)
	}
}

// Identity pulls the authenticated user id and role out of the context.
func Identity(c echo.Context) (uint64, model.Role) {
	uid, _ := c.Get(CtxUserID).(uint64)
	role, _ := c.Get(CtxRole).(model.Role)
	return uid, role
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	users  service.UserService
	tokens *auth.Manager
}

func NewAuthHandler(users service.UserService, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type UserResponse struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

// Register creates an account. Buyer and seller registration is public;
// creating an admin requires a valid admin bearer token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleBuyer
	}

	if role == model.RoleAdmin {
		actor, err := h.callerFromHeader(c)
		if err != nil {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "admin creation requires admin authentication"))
		}
		if actor.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "only existing admins can create admin accounts"))
		}
	}

	user, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "the user with this email already exists in the system"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login exchanges credentials for a bearer token. Accepts form fields for
// OAuth2 password-flow compatibility as well as JSON.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request"))
	}
	user, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrInactiveUser) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "login failed"))
	}
	token, err := h.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to issue token"))
	}
	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) callerFromHeader(c echo.Context) (*model.User, error) {
	authz := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return nil, auth.ErrInvalidToken
	}
	claims, err := h.tokens.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return nil, err
	}
	return h.users.Get(c.Request().Context(), claims.UserID)
}

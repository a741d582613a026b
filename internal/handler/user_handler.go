package handler

import (
	"net/http"

	appmw "github.com/celianh/marketplace-backend/internal/middleware"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
}

func (h *UserHandler) Me(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	user, err := h.svc.Get(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "user not found"))
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), uid, service.UpdateProfileInput{
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

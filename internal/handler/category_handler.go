package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

type CategoryResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryResponse(cat *model.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.svc.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch categories"))
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	category, err := h.svc.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "category with this name already exists"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "category not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete category"))
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "category deleted"})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	appmw "github.com/celianh/marketplace-backend/internal/middleware"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ArticleHandler struct {
	svc service.ArticleService
}

func NewArticleHandler(svc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

type ArticleResponse struct {
	ID           uint64  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ShippingCost float64 `json:"shippingCost"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	IsApproved   bool    `json:"isApproved"`
	CategoryID   *uint64 `json:"categoryId,omitempty"`
	SellerID     uint64  `json:"sellerId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type CreateArticleRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ShippingCost float64 `json:"shippingCost"`
	ImageURL     *string `json:"imageUrl"`
	CategoryID   *uint64 `json:"categoryId"`
}

type UpdateArticleRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	ShippingCost *float64 `json:"shippingCost"`
	ImageURL     *string  `json:"imageUrl"`
	CategoryID   *uint64  `json:"categoryId"`
}

type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}

func toArticleResponse(a *model.Article) ArticleResponse {
	return ArticleResponse{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Price:        a.Price,
		ShippingCost: a.ShippingCost,
		ImageURL:     a.ImageURL,
		IsApproved:   a.IsApproved,
		CategoryID:   a.CategoryID,
		SellerID:     a.SellerID,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
}

func toArticleList(articles []model.Article) []ArticleResponse {
	resp := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		resp = append(resp, toArticleResponse(&articles[i]))
	}
	return resp
}

func (h *ArticleHandler) Create(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	var req CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	article, err := h.svc.Create(c.Request().Context(), uid, service.CreateArticleInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ShippingCost: req.ShippingCost,
		ImageURL:     req.ImageURL,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toArticleResponse(article))
}

// List is the public catalog: approved listings only, with category and text
// search filters.
func (h *ArticleHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("skip"))
	var categoryID *uint64
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid category id"))
		}
		categoryID = &id
	}
	articles, err := h.svc.ListPublic(c.Request().Context(), categoryID, c.QueryParam("search"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch articles"))
	}
	return c.JSON(http.StatusOK, toArticleList(articles))
}

func (h *ArticleHandler) ListAll(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("skip"))
	articles, err := h.svc.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch articles"))
	}
	return c.JSON(http.StatusOK, toArticleList(articles))
}

func (h *ArticleHandler) ListMine(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("skip"))
	articles, err := h.svc.ListBySeller(c.Request().Context(), uid, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch articles"))
	}
	return c.JSON(http.StatusOK, toArticleList(articles))
}

func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	article, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "article not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch article"))
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) Update(c echo.Context) error {
	uid, role := appmw.Identity(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	article, err := h.svc.Update(c.Request().Context(), id, uid, role, service.UpdateArticleInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ShippingCost: req.ShippingCost,
		ImageURL:     req.ImageURL,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		return articleError(c, err)
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) UpdatePrice(c echo.Context) error {
	uid, role := appmw.Identity(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdatePriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	article, err := h.svc.UpdatePrice(c.Request().Context(), id, uid, role, req.Price)
	if err != nil {
		return articleError(c, err)
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) Approve(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	article, err := h.svc.Approve(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "article not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to approve article"))
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) Delete(c echo.Context) error {
	uid, role := appmw.Identity(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid, role); err != nil {
		return articleError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"detail": "article deleted"})
}

func articleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "article not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed to modify this article"))
	case errors.Is(err, service.ErrSuspiciousPrice):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("suspicious_price", err.Error()+". Contact support."))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
}

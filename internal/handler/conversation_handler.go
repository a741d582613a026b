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

type ConversationHandler struct {
	svc      service.ConversationService
	checkout service.CheckoutService
}

func NewConversationHandler(svc service.ConversationService, checkout service.CheckoutService) *ConversationHandler {
	return &ConversationHandler{svc: svc, checkout: checkout}
}

type CreateConversationRequest struct {
	ArticleID uint64 `json:"articleId"`
}

type MessageResponse struct {
	ID             uint64  `json:"id"`
	ConversationID uint64  `json:"conversationId"`
	SenderID       uint64  `json:"senderId"`
	Content        string  `json:"content"`
	FileURL        *string `json:"fileUrl,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

type ConversationResponse struct {
	ID        uint64            `json:"id"`
	ArticleID uint64            `json:"articleId"`
	BuyerID   uint64            `json:"buyerId"`
	SellerID  uint64            `json:"sellerId"`
	CreatedAt string            `json:"createdAt"`
	Messages  []MessageResponse `json:"messages"`
}

type PostMessageRequest struct {
	Content string  `json:"content"`
	FileURL *string `json:"fileUrl"`
}

func toMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		FileURL:        m.FileURL,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func toConversationResponse(cv *model.Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:        cv.ID,
		ArticleID: cv.ArticleID,
		BuyerID:   cv.BuyerID,
		SellerID:  cv.SellerID,
		CreatedAt: cv.CreatedAt.Format(time.RFC3339),
		Messages:  make([]MessageResponse, 0, len(cv.Messages)),
	}
	for i := range cv.Messages {
		resp.Messages = append(resp.Messages, toMessageResponse(&cv.Messages[i]))
	}
	return resp
}

// CreateOrGet is idempotent: one conversation per (article, buyer) pair.
func (h *ConversationHandler) CreateOrGet(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cv, err := h.svc.CreateOrGet(c.Request().Context(), req.ArticleID, uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "article not found"))
		}
		if errors.Is(err, service.ErrSelfConversation) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to create conversation"))
	}
	return c.JSON(http.StatusOK, toConversationResponse(cv))
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	convs, err := h.svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	resp := make([]ConversationResponse, 0, len(convs))
	for i := range convs {
		resp = append(resp, toConversationResponse(&convs[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	cv, err := h.svc.Get(c.Request().Context(), convID, uid)
	if err != nil {
		return conversationError(c, err)
	}
	return c.JSON(http.StatusOK, toConversationResponse(cv))
}

func (h *ConversationHandler) PostMessage(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.PostMessage(c.Request().Context(), convID, uid, req.Content, req.FileURL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		if errors.Is(err, service.ErrForbidden) {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toMessageResponse(msg))
}

// Checkout runs the payment simulation for the conversation's article.
func (h *ConversationHandler) Checkout(c echo.Context) error {
	uid, _ := appmw.Identity(c)
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	receipt, err := h.checkout.Checkout(c.Request().Context(), convID, uid)
	if err != nil {
		if errors.Is(err, service.ErrArticleGone) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "article not found or already sold"))
		}
		if errors.Is(err, service.ErrForbidden) {
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "only the buyer can checkout here"))
		}
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "checkout failed"))
	}
	return c.JSON(http.StatusOK, receipt)
}

func conversationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversation"))
	}
}

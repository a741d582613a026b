package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type FraudHandler struct {
	svc service.FraudService
}

func NewFraudHandler(svc service.FraudService) *FraudHandler {
	return &FraudHandler{svc: svc}
}

type FraudLogResponse struct {
	ID           uint64  `json:"id"`
	ArticleID    uint64  `json:"articleId"`
	SellerID     uint64  `json:"sellerId"`
	OldPrice     float64 `json:"oldPrice"`
	NewPrice     float64 `json:"newPrice"`
	ChangePct    float64 `json:"changePct"`
	Reason       string  `json:"reason"`
	IsSuspicious bool    `json:"isSuspicious"`
	Resolved     bool    `json:"resolved"`
	CreatedAt    string  `json:"createdAt"`
}

func toFraudLogResponse(entry *model.FraudLog) FraudLogResponse {
	return FraudLogResponse{
		ID:           entry.ID,
		ArticleID:    entry.ArticleID,
		SellerID:     entry.SellerID,
		OldPrice:     entry.OldPrice,
		NewPrice:     entry.NewPrice,
		ChangePct:    entry.ChangePct,
		Reason:       entry.Reason,
		IsSuspicious: entry.IsSuspicious,
		Resolved:     entry.Resolved,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
}

func (h *FraudHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("skip"))
	suspiciousOnly, _ := strconv.ParseBool(c.QueryParam("suspicious_only"))
	entries, err := h.svc.ListLogs(c.Request().Context(), suspiciousOnly, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch fraud logs"))
	}
	resp := make([]FraudLogResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toFraudLogResponse(&entries[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *FraudHandler) Resolve(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	entry, err := h.svc.Resolve(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "fraud log not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to resolve fraud log"))
	}
	return c.JSON(http.StatusOK, toFraudLogResponse(entry))
}

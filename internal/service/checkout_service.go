package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/celianh/marketplace-backend/internal/logger"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArticleGone reports that the conversation's article no longer exists,
// typically because a racing checkout already bought it. Distinct from
// ErrNotFound so callers can tell "already sold" apart from a bad id.
var ErrArticleGone = errors.New("article not found or already sold")

// Receipt is the result of a simulated payment capture.
type Receipt struct {
	Amount        float64 `json:"amount"`
	Success       bool    `json:"success"`
	TransactionID string  `json:"transactionId"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, convID, buyerID uint64) (*Receipt, error)
}

type checkoutService struct {
	convRepo    repository.ConversationRepository
	articleRepo repository.ArticleRepository
	hub         Broadcaster
}

func NewCheckoutService(convRepo repository.ConversationRepository, articleRepo repository.ArticleRepository, hub Broadcaster) CheckoutService {
	return &checkoutService{convRepo: convRepo, articleRepo: articleRepo, hub: hub}
}

// Checkout simulates an external payment capture: once the preconditions
// pass, success is unconditional. The sale-announcement message and the
// article deletion commit as one unit, and the broadcast happens only after
// that commit.
func (s *checkoutService) Checkout(ctx context.Context, convID, buyerID uint64) (*Receipt, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerID != buyerID {
		return nil, ErrForbidden
	}

	article, err := s.articleRepo.FindByID(ctx, cv.ArticleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleGone
		}
		return nil, err
	}

	amount := article.Price + article.ShippingCost

	// The system has no user of its own; the announcement is authored as the
	// conversation's seller.
	msg := &model.Message{
		ConversationID: cv.ID,
		SenderID:       cv.SellerID,
		Content:        fmt.Sprintf("AUTOMATED MESSAGE: Buyer just purchased this item for $%.2f", amount),
	}
	if err := s.convRepo.CheckoutArticle(ctx, msg, article.ID); err != nil {
		return nil, err
	}

	s.hub.Broadcast(cv.ID, msg)

	txID := "pi_mock_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	logger.L().Info("checkout completed",
		zap.Uint64("conversationId", cv.ID),
		zap.Uint64("articleId", article.ID),
		zap.Float64("amount", amount),
		zap.String("transactionId", txID),
	)
	return &Receipt{Amount: amount, Success: true, TransactionID: txID}, nil
}

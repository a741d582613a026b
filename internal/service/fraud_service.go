package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/celianh/marketplace-backend/internal/logger"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// A price edit is suspicious when its magnitude exceeds this percentage
// strictly. Exactly 50% is clean.
const fraudThresholdPct = 50.0

// FraudResult describes one evaluation of a price change.
type FraudResult struct {
	ArticleID    uint64  `json:"articleId"`
	SellerID     uint64  `json:"sellerId"`
	OldPrice     float64 `json:"oldPrice"`
	NewPrice     float64 `json:"newPrice"`
	IsSuspicious bool    `json:"isSuspicious"`
	Reason       string  `json:"reason"`
}

type FraudService interface {
	// CheckPriceChange evaluates a price edit and appends one audit record,
	// suspicious or not. A failed audit write fails the evaluation: the
	// change must never be applied without its trail.
	CheckPriceChange(ctx context.Context, articleID uint64, oldPrice, newPrice float64, sellerID uint64) (*FraudResult, error)
	ListLogs(ctx context.Context, suspiciousOnly bool, limit, offset int) ([]model.FraudLog, error)
	Resolve(ctx context.Context, logID uint64) (*model.FraudLog, error)
}

type fraudService struct {
	repo repository.FraudLogRepository
}

func NewFraudService(repo repository.FraudLogRepository) FraudService {
	return &fraudService{repo: repo}
}

func (s *fraudService) CheckPriceChange(ctx context.Context, articleID uint64, oldPrice, newPrice float64, sellerID uint64) (*FraudResult, error) {
	var (
		suspicious bool
		reason     string
		changePct  float64
	)

	// oldPrice == 0 cannot be evaluated (division by zero); policy is to
	// never flag such changes.
	if oldPrice > 0 {
		changePct = math.Abs(newPrice-oldPrice) / oldPrice * 100
		if changePct > fraudThresholdPct {
			suspicious = true
			reason = fmt.Sprintf("Price changed by %.1f%% (from %.1f to %.1f)", changePct, oldPrice, newPrice)
		}
	}
	if reason == "" {
		reason = "OK"
	}

	entry := &model.FraudLog{
		ArticleID:    articleID,
		SellerID:     sellerID,
		OldPrice:     oldPrice,
		NewPrice:     newPrice,
		ChangePct:    math.Round(changePct*100) / 100,
		Reason:       reason,
		IsSuspicious: suspicious,
		Resolved:     false,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	result := &FraudResult{
		ArticleID:    articleID,
		SellerID:     sellerID,
		OldPrice:     oldPrice,
		NewPrice:     newPrice,
		IsSuspicious: suspicious,
		Reason:       reason,
	}
	if suspicious {
		logger.L().Warn("fraud alert",
			zap.Uint64("articleId", articleID),
			zap.Uint64("sellerId", sellerID),
			zap.Float64("oldPrice", oldPrice),
			zap.Float64("newPrice", newPrice),
			zap.String("reason", reason),
		)
	} else {
		logger.L().Info("price change ok",
			zap.Uint64("articleId", articleID),
			zap.Float64("oldPrice", oldPrice),
			zap.Float64("newPrice", newPrice),
		)
	}
	return result, nil
}

func (s *fraudService) ListLogs(ctx context.Context, suspiciousOnly bool, limit, offset int) ([]model.FraudLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, suspiciousOnly, limit, offset)
}

func (s *fraudService) Resolve(ctx context.Context, logID uint64) (*model.FraudLog, error) {
	entry, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entry.Resolved = true
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrForbidden = errors.New("forbidden")

// ErrSuspiciousPrice rejects a price change the fraud evaluator flagged.
// The wrapped message carries the evaluator's reason.
var ErrSuspiciousPrice = errors.New("suspicious price change")

type CreateArticleInput struct {
	Title        string
	Description  string
	Price        float64
	ShippingCost float64
	ImageURL     *string
	CategoryID   *uint64
}

// UpdateArticleInput applies only the fields that are present. The price
// field is diverted through the fraud evaluator before assignment.
type UpdateArticleInput struct {
	Title        *string
	Description  *string
	Price        *float64
	ShippingCost *float64
	ImageURL     *string
	CategoryID   *uint64
}

type ArticleService interface {
	Create(ctx context.Context, sellerID uint64, in CreateArticleInput) (*model.Article, error)
	Get(ctx context.Context, id uint64) (*model.Article, error)
	ListPublic(ctx context.Context, categoryID *uint64, search string, limit, offset int) ([]model.Article, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Article, error)
	ListBySeller(ctx context.Context, sellerID uint64, limit, offset int) ([]model.Article, error)
	Update(ctx context.Context, id, actorID uint64, actorRole model.Role, in UpdateArticleInput) (*model.Article, error)
	UpdatePrice(ctx context.Context, id, actorID uint64, actorRole model.Role, newPrice float64) (*model.Article, error)
	Approve(ctx context.Context, id uint64) (*model.Article, error)
	Delete(ctx context.Context, id, actorID uint64, actorRole model.Role) error
}

type articleService struct {
	repo  repository.ArticleRepository
	fraud FraudService
}

func NewArticleService(repo repository.ArticleRepository, fraud FraudService) ArticleService {
	return &articleService{repo: repo, fraud: fraud}
}

func (s *articleService) Create(ctx context.Context, sellerID uint64, in CreateArticleInput) (*model.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 255 {
		return nil, errors.New("invalid title")
	}
	if in.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.ShippingCost < 0 {
		return nil, errors.New("shipping cost must not be negative")
	}

	// Seller-created listings always start unapproved; only an admin flips
	// the flag.
	article := &model.Article{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		ShippingCost: in.ShippingCost,
		ImageURL:     in.ImageURL,
		CategoryID:   in.CategoryID,
		SellerID:     sellerID,
		IsApproved:   false,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Get(ctx context.Context, id uint64) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *articleService) ListPublic(ctx context.Context, categoryID *uint64, search string, limit, offset int) ([]model.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListApproved(ctx, repository.ArticleFilter{
		CategoryID: categoryID,
		Search:     strings.TrimSpace(search),
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *articleService) ListAll(ctx context.Context, limit, offset int) ([]model.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAll(ctx, limit, offset)
}

func (s *articleService) ListBySeller(ctx context.Context, sellerID uint64, limit, offset int) ([]model.Article, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

func (s *articleService) findOwned(ctx context.Context, id, actorID uint64, actorRole model.Role) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if article.SellerID != actorID && actorRole != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return article, nil
}

func (s *articleService) Update(ctx context.Context, id, actorID uint64, actorRole model.Role, in UpdateArticleInput) (*model.Article, error) {
	article, err := s.findOwned(ctx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if in.Price != nil && *in.Price != article.Price {
		res, err := s.fraud.CheckPriceChange(ctx, article.ID, article.Price, *in.Price, actorID)
		if err != nil {
			return nil, err
		}
		if res.IsSuspicious {
			return nil, fmt.Errorf("%w: %s", ErrSuspiciousPrice, res.Reason)
		}
		article.Price = *in.Price
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > 255 {
			return nil, errors.New("invalid title")
		}
		article.Title = title
	}
	if in.Description != nil {
		article.Description = strings.TrimSpace(*in.Description)
	}
	if in.ShippingCost != nil {
		if *in.ShippingCost < 0 {
			return nil, errors.New("shipping cost must not be negative")
		}
		article.ShippingCost = *in.ShippingCost
	}
	if in.ImageURL != nil {
		article.ImageURL = in.ImageURL
	}
	if in.CategoryID != nil {
		article.CategoryID = in.CategoryID
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) UpdatePrice(ctx context.Context, id, actorID uint64, actorRole model.Role, newPrice float64) (*model.Article, error) {
	article, err := s.findOwned(ctx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	res, err := s.fraud.CheckPriceChange(ctx, article.ID, article.Price, newPrice, actorID)
	if err != nil {
		return nil, err
	}
	if res.IsSuspicious {
		return nil, fmt.Errorf("%w: %s", ErrSuspiciousPrice, res.Reason)
	}

	article.Price = newPrice
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Approve(ctx context.Context, id uint64) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	article.IsApproved = true
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, id, actorID uint64, actorRole model.Role) error {
	if _, err := s.findOwned(ctx, id, actorID, actorRole); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

package repository

import (
	"context"

	"github.com/celianh/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

// ArticleFilter narrows the public listing. Zero values mean "no filter".
type ArticleFilter struct {
	CategoryID *uint64
	Search     string
	Limit      int
	Offset     int
}

type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id uint64) (*model.Article, error)
	ListApproved(ctx context.Context, f ArticleFilter) ([]model.Article, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Article, error)
	ListBySeller(ctx context.Context, sellerID uint64, limit, offset int) ([]model.Article, error)
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id uint64) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id uint64) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListApproved(ctx context.Context, f ArticleFilter) ([]model.Article, error) {
	q := r.db.WithContext(ctx).Where("is_approved = ?", true)
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	var articles []model.Article
	if err := q.Order("created_at desc").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Article, error) {
	var articles []model.Article
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) ListBySeller(ctx context.Context, sellerID uint64, limit, offset int) ([]model.Article, error) {
	var articles []model.Article
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *articleRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, id).Error
}

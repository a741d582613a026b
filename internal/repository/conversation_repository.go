package repository

import (
	"context"

	"github.com/celianh/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, articleID, buyerID, sellerID uint64) (*model.Conversation, error)
	FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, convID uint64) ([]model.Message, error)
	// CheckoutArticle persists the sale-announcement message and deletes the
	// article as one unit: neither survives without the other.
	CheckoutArticle(ctx context.Context, msg *model.Message, articleID uint64) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, articleID, buyerID, sellerID uint64) (*model.Conversation, error) {
	cv := model.Conversation{ArticleID: articleID, BuyerID: buyerID, SellerID: sellerID}
	if err := r.db.WithContext(ctx).
		Where("article_id = ? AND buyer_id = ?", articleID, buyerID).
		FirstOrCreate(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("messages.id ASC") }).
		Where("seller_id = ? OR buyer_id = ?", userID, userID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var cv model.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("messages.id ASC") }).
		First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepository) ListMessages(ctx context.Context, convID uint64) ([]model.Message, error) {
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *conversationRepository) CheckoutArticle(ctx context.Context, msg *model.Message, articleID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Article{}, articleID).Error
	})
}

package service

import (
	"context"
	"errors"

	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrSelfConversation = errors.New("sellers cannot start a conversation with themselves")

// Broadcaster delivers a payload to every live subscriber of a conversation.
// Implemented by the ws hub; persistence always precedes the broadcast so a
// fan-out failure never loses the message.
type Broadcaster interface {
	Broadcast(convID uint64, payload interface{})
}

type ConversationService interface {
	CreateOrGet(ctx context.Context, articleID, buyerID uint64) (*model.Conversation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Conversation, error)
	Get(ctx context.Context, convID, userID uint64) (*model.Conversation, error)
	PostMessage(ctx context.Context, convID, senderID uint64, content string, fileURL *string) (*model.Message, error)
	IsParticipant(ctx context.Context, convID, userID uint64) (bool, error)
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	articleRepo repository.ArticleRepository
	hub         Broadcaster
}

func NewConversationService(convRepo repository.ConversationRepository, articleRepo repository.ArticleRepository, hub Broadcaster) ConversationService {
	return &conversationService{convRepo: convRepo, articleRepo: articleRepo, hub: hub}
}

func (s *conversationService) CreateOrGet(ctx context.Context, articleID, buyerID uint64) (*model.Conversation, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if article.SellerID == buyerID {
		return nil, ErrSelfConversation
	}
	return s.convRepo.FindOrCreate(ctx, articleID, buyerID, article.SellerID)
}

func (s *conversationService) ListByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	return s.convRepo.FindByUser(ctx, userID)
}

func (s *conversationService) Get(ctx context.Context, convID, userID uint64) (*model.Conversation, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerID != userID && cv.SellerID != userID {
		return nil, ErrForbidden
	}
	return cv, nil
}

func (s *conversationService) PostMessage(ctx context.Context, convID, senderID uint64, content string, fileURL *string) (*model.Message, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerID != senderID && cv.SellerID != senderID {
		return nil, ErrForbidden
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
		FileURL:        fileURL,
	}
	// Durably stored first; reconnecting readers see the message via fetch
	// even if no subscriber was live for the fan-out.
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.hub.Broadcast(convID, msg)
	return msg, nil
}

func (s *conversationService) IsParticipant(ctx context.Context, convID, userID uint64) (bool, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return cv.BuyerID == userID || cv.SellerID == userID, nil
}

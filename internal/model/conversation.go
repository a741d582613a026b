package model

import "time"

// Conversation is a buyer-seller thread scoped to one article. The unique
// index on (article_id, buyer_id) makes create-or-get idempotent even under
// concurrent requests: a losing insert hits the constraint and is resolved
// as a fetch of the existing row.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ArticleID uint64    `gorm:"column:article_id;index:idx_article_buyer,unique" json:"articleId"`
	BuyerID   uint64    `gorm:"column:buyer_id;index:idx_article_buyer,unique" json:"buyerId"`
	SellerID  uint64    `gorm:"column:seller_id;index" json:"sellerId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	Messages  []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages"`
}

func (Conversation) TableName() string {
	return "conversations"
}

package model

import "time"

type Article struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"size:255;not null;index"`
	Description  string    `gorm:"type:text"`
	Price        float64   `gorm:"not null"`
	ShippingCost float64   `gorm:"column:shipping_cost;default:0"`
	ImageURL     *string   `gorm:"column:image_url;size:512"`
	IsApproved   bool      `gorm:"column:is_approved;not null;default:false"`
	CategoryID   *uint64   `gorm:"column:category_id;index"`
	SellerID     uint64    `gorm:"column:seller_id;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Article) TableName() string {
	return "articles"
}

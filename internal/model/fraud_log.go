package model

import "time"

// FraudLog is an append-only audit record of a price-change evaluation.
// Every evaluation writes one row, suspicious or not; only Resolved is ever
// mutated afterwards.
type FraudLog struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	ArticleID    uint64    `gorm:"column:article_id;index;not null"`
	SellerID     uint64    `gorm:"column:seller_id;index;not null"`
	OldPrice     float64   `gorm:"column:old_price;not null"`
	NewPrice     float64   `gorm:"column:new_price;not null"`
	ChangePct    float64   `gorm:"column:change_pct;not null"`
	Reason       string    `gorm:"size:255;not null"`
	IsSuspicious bool      `gorm:"column:is_suspicious;not null;default:false"`
	Resolved     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (FraudLog) TableName() string {
	return "fraud_logs"
}

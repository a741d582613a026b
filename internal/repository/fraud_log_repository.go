package repository

import (
	"context"

	"github.com/celianh/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type FraudLogRepository interface {
	Create(ctx context.Context, entry *model.FraudLog) error
	FindByID(ctx context.Context, id uint64) (*model.FraudLog, error)
	List(ctx context.Context, suspiciousOnly bool, limit, offset int) ([]model.FraudLog, error)
	Update(ctx context.Context, entry *model.FraudLog) error
}

type fraudLogRepository struct {
	db *gorm.DB
}

func NewFraudLogRepository(db *gorm.DB) FraudLogRepository {
	return &fraudLogRepository{db: db}
}

func (r *fraudLogRepository) Create(ctx context.Context, entry *model.FraudLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *fraudLogRepository) FindByID(ctx context.Context, id uint64) (*model.FraudLog, error) {
	var entry model.FraudLog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *fraudLogRepository) List(ctx context.Context, suspiciousOnly bool, limit, offset int) ([]model.FraudLog, error) {
	q := r.db.WithContext(ctx).Model(&model.FraudLog{})
	if suspiciousOnly {
		q = q.Where("is_suspicious = ?", true)
	}
	var entries []model.FraudLog
	if err := q.Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *fraudLogRepository) Update(ctx context.Context, entry *model.FraudLog) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mercado_validade_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// MerchantRepository 商户仓储接口
type MerchantRepository interface {
	Create(ctx context.Context, merchant *model.Merchant) error
	GetByID(ctx context.Context, id int64) (*model.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*model.Merchant, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcept 判断邮箱是否被其它商户占用（资料编辑用）
	ExistsByEmailExcept(ctx context.Context, email string, exceptID int64) (bool, error)
	Update(ctx context.Context, merchant *model.Merchant) error
	Delete(ctx context.Context, id int64) error

	// 事务
	WithTx(tx *gorm.DB) MerchantRepository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ==================== 仓储实现 ====================

type merchantRepo struct {
	db *gorm.DB
}

// NewMerchantRepository 创建商户仓储
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepo{db: db}
}

func (r *merchantRepo) Create(ctx context.Context, merchant *model.Merchant) error {
	return r.db.WithContext(ctx).Create(merchant).Error
}

func (r *merchantRepo) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.WithContext(ctx).First(&merchant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepo) GetByEmail(ctx context.Context, email string) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Merchant{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *merchantRepo) ExistsByEmailExcept(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Merchant{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *merchantRepo) Update(ctx context.Context, merchant *model.Merchant) error {
	return r.db.WithContext(ctx).Save(merchant).Error
}

func (r *merchantRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Merchant{}, id).Error
}

func (r *merchantRepo) WithTx(tx *gorm.DB) MerchantRepository {
	return &merchantRepo{db: tx}
}

func (r *merchantRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

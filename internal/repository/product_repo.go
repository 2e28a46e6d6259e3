package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mercado_validade_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
// 列表一律按有效期升序：临期越紧迫越靠前，是本业务的核心排序策略
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]model.Product, error)
	Delete(ctx context.Context, id int64) error
	DeleteByMerchant(ctx context.Context, merchantID int64) error

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("expires_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("expires_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) DeleteByMerchant(ctx context.Context, merchantID int64) error {
	return r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Delete(&model.Product{}).Error
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

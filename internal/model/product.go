package model

import "time"

// DefaultProductImage 未上传图片时的占位图，永远不会提交远端删除
const DefaultProductImage = "default.png"

// Product 临期商品
type Product struct {
	BaseModel
	Name          string    `gorm:"size:100;not null"`         // 商品名
	OriginalPrice float64   `gorm:"not null"`                  // 原价
	DiscountPrice float64   `gorm:"not null"`                  // 折扣价（不强制 <= 原价，见 DESIGN.md）
	ExpiresAt     time.Time `gorm:"type:date;not null;index"`  // 有效期，列表按此升序
	Quantity      int       `gorm:"not null"`                  // 可售数量
	ImageURL      string    `gorm:"size:256;default:default.png"` // 图片公开 URL 或占位图
	MerchantID    int64     `gorm:"index;not null"`            // 归属商户

	Merchant *Merchant `gorm:"foreignKey:MerchantID"`
}

func (Product) TableName() string {
	return "products"
}

// HasUploadedImage 是否持有真实上传的远端图片
func (p *Product) HasUploadedImage() bool {
	return p.ImageURL != "" && p.ImageURL != DefaultProductImage
}

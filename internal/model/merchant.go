package model

// Merchant 商户账号
type Merchant struct {
	BaseModel
	BusinessName string `gorm:"size:150;not null"`            // 商铺名称
	Email        string `gorm:"size:150;uniqueIndex;not null"` // 登录邮箱，全局唯一
	PasswordHash string `gorm:"size:256" json:"-"`             // 仅存 bcrypt 哈希，绝不存明文
	Address      string `gorm:"size:250;not null"`             // 地址（街道、门牌、街区）

	Products []Product `gorm:"foreignKey:MerchantID"`
}

func (Merchant) TableName() string {
	return "merchants"
}

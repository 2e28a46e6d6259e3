package model

import (
	"time"
)

// BaseModel 通用主键与时间戳
// 删除必须是物理删除（账号注销后行不可残留），因此不带 gorm.DeletedAt
type BaseModel struct {
	ID        int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

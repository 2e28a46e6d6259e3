package dto

import "time"

// ProdutoForm 新增商品表单
// 图片文件单独经 multipart 读取，不在绑定范围内
// 折扣价不校验 <= 原价，见 DESIGN.md
type ProdutoForm struct {
	Name          string    `form:"nome" binding:"required"`
	OriginalPrice float64   `form:"preco_original" binding:"required,gt=0"`
	DiscountPrice float64   `form:"preco_desconto" binding:"required,gt=0"`
	ExpiresAt     time.Time `form:"validade" binding:"required" time_format:"2006-01-02"`
	// 数量用指针：0 是合法库存，required 只拦 nil
	Quantity *int `form:"quantidade" binding:"required,gte=0"`
}

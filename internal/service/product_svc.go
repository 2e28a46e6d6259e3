package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/internal/repository"
	"mercado_validade_v1_202608/pkg/logger"
	"mercado_validade_v1_202608/pkg/utils"
)

var (
	ErrProductNotFound = errors.New("Produto não encontrado.")
	ErrNotProductOwner = errors.New("Operação não permitida.")
	ErrImageNotAllowed = errors.New("Tipo de ficheiro de imagem não permitido.")
	// ErrUploadFailed 上传失败的前缀，包装后整句展示给商户（不重试）
	ErrUploadFailed = errors.New("Ocorreu um erro ao fazer o upload da imagem")
)

// ImageUpload 控制器从 multipart 读出的待上传图片
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ==================== ProductService 商品服务 ====================

// ProductService 商品服务：公开列表、详情、上架、下架
type ProductService struct {
	productRepo repository.ProductRepository
	storage     StorageProvider
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, storage StorageProvider) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storage:     storage,
	}
}

// ==================== 查询 ====================

// ListAll 公开列表，有效期升序（最紧迫的排最前）
func (s *ProductService) ListAll(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.ListAll(ctx)
}

// ListByMerchant 商户自己的商品，同样按有效期升序
func (s *ProductService) ListByMerchant(ctx context.Context, merchantID int64) ([]model.Product, error) {
	return s.productRepo.ListByMerchant(ctx, merchantID)
}

// GetByID 商品详情
func (s *ProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ==================== 上架 ====================

// AddProduct 上架商品，image 可为 nil
// 扩展名在表单层之外这里再查一次白名单；上传失败整个操作中止，不建行
func (s *ProductService) AddProduct(ctx context.Context, merchantID int64, form *dto.ProdutoForm, image *ImageUpload) (*model.Product, error) {
	imageURL := model.DefaultProductImage

	if image != nil && image.Filename != "" {
		if !utils.AllowedImageExt(image.Filename) {
			return nil, ErrImageNotAllowed
		}
		url, err := s.storage.Upload(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		imageURL = url
	}

	product := &model.Product{
		Name:          form.Name,
		OriginalPrice: form.OriginalPrice,
		DiscountPrice: form.DiscountPrice,
		ExpiresAt:     form.ExpiresAt,
		Quantity:      *form.Quantity,
		ImageURL:      imageURL,
		MerchantID:    merchantID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ==================== 下架 ====================

// DeleteProduct 删除自己的商品
// 远端图片先尽力删，失败只记日志，不阻塞删行（一致性缺口见 DESIGN.md）
func (s *ProductService) DeleteProduct(ctx context.Context, merchantID, productID int64) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.MerchantID != merchantID {
		return ErrNotProductOwner
	}

	if product.HasUploadedImage() {
		if derr := s.storage.Delete(ctx, product.ImageURL); derr != nil {
			logger.GetLogger().Warn("falha ao apagar imagem do blob",
				zap.Int64("product_id", product.ID),
				zap.String("url", product.ImageURL),
				zap.Error(derr))
		}
	}

	return s.productRepo.Delete(ctx, productID)
}

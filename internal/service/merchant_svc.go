package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/internal/repository"
	"mercado_validade_v1_202608/pkg/logger"
)

// 错误文案直接面向页面 flash，保持葡语
var (
	ErrEmailExists        = errors.New("Este email já está cadastrado.")
	ErrInvalidCredentials = errors.New("Email ou senha inválidos.")
	ErrMerchantNotFound   = errors.New("Conta não encontrada.")
)

// ==================== MerchantService 商户服务 ====================

// MerchantService 商户账号服务：注册、登录、资料、注销
type MerchantService struct {
	merchantRepo repository.MerchantRepository
	productRepo  repository.ProductRepository
	storage      StorageProvider
}

// NewMerchantService 创建商户服务
func NewMerchantService(
	merchantRepo repository.MerchantRepository,
	productRepo repository.ProductRepository,
	storage StorageProvider,
) *MerchantService {
	return &MerchantService{
		merchantRepo: merchantRepo,
		productRepo:  productRepo,
		storage:      storage,
	}
}

// ==================== 注册 / 登录 ====================

// Register 注册商户，密码立即散列，明文不落任何存储
func (s *MerchantService) Register(ctx context.Context, form *dto.CadastroForm) (*model.Merchant, error) {
	exists, err := s.merchantRepo.ExistsByEmail(ctx, form.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	merchant := &model.Merchant{
		BusinessName: form.BusinessName,
		Email:        form.Email,
		PasswordHash: string(hashed),
		Address:      form.Address,
	}

	if err := s.merchantRepo.Create(ctx, merchant); err != nil {
		// 并发注册时靠唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return merchant, nil
}

// Login 邮箱+密码登录
// 查无此邮箱和密码错误返回同一个错误，不给账号枚举留口子
func (s *MerchantService) Login(ctx context.Context, email, password string) (*model.Merchant, error) {
	merchant, err := s.merchantRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return merchant, nil
}

// ==================== 资料 ====================

// GetByID 取商户快照
func (s *MerchantService) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}
	return merchant, nil
}

// UpdateProfile 覆盖名称/邮箱/地址；改邮箱时先查占用，否则唯一索引会炸成 500
func (s *MerchantService) UpdateProfile(ctx context.Context, id int64, form *dto.EditarPerfilForm) (*model.Merchant, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if merchant == nil {
		return nil, ErrMerchantNotFound
	}

	if form.Email != merchant.Email {
		taken, err := s.merchantRepo.ExistsByEmailExcept(ctx, form.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailExists
		}
	}

	merchant.BusinessName = form.BusinessName
	merchant.Email = form.Email
	merchant.Address = form.Address

	if err := s.merchantRepo.Update(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

// ==================== 注销 ====================

// DeleteAccount 注销账号
// 先尽力删远端图片（失败只记日志并计数），再在一个事务里删光商品行和商户行；
// 本地删除要么全部成功要么回滚，远端清理是明示的 best-effort
// 返回值 cleanupFailures 用于把部分失败和完全成功区分开提示
func (s *MerchantService) DeleteAccount(ctx context.Context, merchantID int64) (cleanupFailures int, err error) {
	merchant, err := s.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		return 0, err
	}
	if merchant == nil {
		return 0, ErrMerchantNotFound
	}

	products, err := s.productRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return 0, err
	}

	log := logger.GetLogger()
	for i := range products {
		p := &products[i]
		if !p.HasUploadedImage() {
			continue
		}
		if derr := s.storage.Delete(ctx, p.ImageURL); derr != nil {
			cleanupFailures++
			log.Warn("falha ao apagar imagem do produto no blob",
				zap.Int64("product_id", p.ID),
				zap.String("url", p.ImageURL),
				zap.Error(derr))
		}
	}

	err = s.merchantRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.productRepo.WithTx(tx).DeleteByMerchant(ctx, merchantID); err != nil {
			return err
		}
		return s.merchantRepo.WithTx(tx).Delete(ctx, merchantID)
	})
	if err != nil {
		return cleanupFailures, err
	}
	return cleanupFailures, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/repository"
)

func newMerchantSvc(t *testing.T) (*MerchantService, *ProductService, *fakeStorage, repository.MerchantRepository, repository.ProductRepository) {
	db := setupServiceTestDB(t)
	merchantRepo := repository.NewMerchantRepository(db)
	productRepo := repository.NewProductRepository(db)
	storage := &fakeStorage{}
	return NewMerchantService(merchantRepo, productRepo, storage),
		NewProductService(productRepo, storage),
		storage, merchantRepo, productRepo
}

func cadastroForm(email string) *dto.CadastroForm {
	return &dto.CadastroForm{
		BusinessName:    "Mercearia A",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Address:         "Rua B, 45, Bairro Alto",
	}
}

// ==================== 注册 ====================

func TestMerchantService_RegisterHashesPassword(t *testing.T) {
	svc, _, _, repo, _ := newMerchantSvc(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)

	// 明文永远不落库
	stored, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.Equal(t, m.ID, stored.ID)

	// 同一输入校验通过，其它输入失败
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret2")))
}

func TestMerchantService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newMerchantSvc(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, cadastroForm("dup@x.com"))
	require.NoError(t, err)

	// 重复邮箱必须失败且不建新行
	_, err = svc.Register(ctx, cadastroForm("dup@x.com"))
	assert.ErrorIs(t, err, ErrEmailExists)
}

// ==================== 登录 ====================

func TestMerchantService_LoginScenario(t *testing.T) {
	svc, _, _, _, _ := newMerchantSvc(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)

	// 密码错误：拒绝
	_, err = svc.Login(ctx, "a@x.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 邮箱不存在：同一个错误，不暴露账号是否存在
	_, err = svc.Login(ctx, "naoexiste@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 密码正确：成功
	m, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", m.Email)
}

// ==================== 资料编辑 ====================

func TestMerchantService_UpdateProfile(t *testing.T) {
	svc, _, _, repo, _ := newMerchantSvc(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, m.ID, &dto.EditarPerfilForm{
		BusinessName: "Mercearia Nova",
		Email:        "novo@x.com",
		Address:      "Rua C, 9, Centro",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mercearia Nova", updated.BusinessName)

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "novo@x.com", stored.Email)
	assert.Equal(t, "Rua C, 9, Centro", stored.Address)
}

func TestMerchantService_UpdateProfileEmailTaken(t *testing.T) {
	svc, _, _, _, _ := newMerchantSvc(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)
	b, err := svc.Register(ctx, cadastroForm("b@x.com"))
	require.NoError(t, err)

	// 抢占他人邮箱被拒
	_, err = svc.UpdateProfile(ctx, b.ID, &dto.EditarPerfilForm{
		BusinessName: "B",
		Email:        "a@x.com",
		Address:      "Rua X",
	})
	assert.ErrorIs(t, err, ErrEmailExists)

	// 保留自己的邮箱不算占用
	_, err = svc.UpdateProfile(ctx, b.ID, &dto.EditarPerfilForm{
		BusinessName: "B",
		Email:        "b@x.com",
		Address:      "Rua X",
	})
	assert.NoError(t, err)
}

// ==================== 注销 ====================

func TestMerchantService_DeleteAccountRemovesEverything(t *testing.T) {
	svc, productSvc, storage, merchantRepo, productRepo := newMerchantSvc(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)

	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = productSvc.AddProduct(ctx, m.ID, &dto.ProdutoForm{
		Name: "Leite", OriginalPrice: 10, DiscountPrice: 7,
		ExpiresAt: expiry, Quantity: intPtr(5),
	}, &ImageUpload{Filename: "leite.gif", Data: []byte("gif")})
	require.NoError(t, err)

	_, err = productSvc.AddProduct(ctx, m.ID, &dto.ProdutoForm{
		Name: "Pão", OriginalPrice: 5, DiscountPrice: 3,
		ExpiresAt: expiry, Quantity: intPtr(2),
	}, nil)
	require.NoError(t, err)

	failures, err := svc.DeleteAccount(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, failures)

	// 商户行和全部商品行必须都不在了
	gone, err := merchantRepo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	rest, err := productRepo.ListByMerchant(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, rest)

	// 只有真实上传过的图片触发远端删除，占位图不删
	assert.Len(t, storage.deletes, 1)
}

func TestMerchantService_DeleteAccountCleanupFailureStillDeletesRows(t *testing.T) {
	svc, productSvc, storage, merchantRepo, productRepo := newMerchantSvc(t)
	ctx := context.Background()

	m, err := svc.Register(ctx, cadastroForm("a@x.com"))
	require.NoError(t, err)

	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = productSvc.AddProduct(ctx, m.ID, &dto.ProdutoForm{
		Name: "Leite", OriginalPrice: 10, DiscountPrice: 7,
		ExpiresAt: expiry, Quantity: intPtr(5),
	}, &ImageUpload{Filename: "leite.gif", Data: []byte("gif")})
	require.NoError(t, err)

	// 远端删除失败是 best-effort：计数上报，本地删除照常
	storage.failDelete = true

	failures, err := svc.DeleteAccount(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, failures)

	gone, err := merchantRepo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	rest, err := productRepo.ListByMerchant(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestMerchantService_DeleteMissingAccount(t *testing.T) {
	svc, _, _, _, _ := newMerchantSvc(t)

	_, err := svc.DeleteAccount(context.Background(), 999)
	assert.ErrorIs(t, err, ErrMerchantNotFound)
}

package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/middleware"
	"mercado_validade_v1_202608/internal/service"
)

// MerchantController 后台：面板、资料编辑、账号注销
type MerchantController struct {
	merchantSvc *service.MerchantService
	productSvc  *service.ProductService
	sessions    *middleware.SessionManager
}

func NewMerchantController(
	merchantSvc *service.MerchantService,
	productSvc *service.ProductService,
	sessions *middleware.SessionManager,
) *MerchantController {
	return &MerchantController{
		merchantSvc: merchantSvc,
		productSvc:  productSvc,
		sessions:    sessions,
	}
}

// ==================== 面板 ====================

// Dashboard GET /dashboard
// 只列当前商户自己的商品，同样按有效期升序，页面含上架表单
func (ctrl *MerchantController) Dashboard(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	products, err := ctrl.productSvc.ListByMerchant(c.Request.Context(), merchant.ID)
	if err != nil {
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível carregar os seus produtos.")
	}

	render(c, ctrl.sessions, http.StatusOK, "dashboard.html", gin.H{
		"Products": products,
	})
}

// ==================== 资料编辑 ====================

// ShowEditProfile GET /editar_perfil，表单预填当前存量值
func (ctrl *MerchantController) ShowEditProfile(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	render(c, ctrl.sessions, http.StatusOK, "editar_perfil.html", gin.H{
		"Form": &dto.EditarPerfilForm{
			BusinessName: merchant.BusinessName,
			Email:        merchant.Email,
			Address:      merchant.Address,
		},
	})
}

// EditProfile POST /editar_perfil
// 只覆盖名称/邮箱/地址，这条流程里没有改密码的路径
func (ctrl *MerchantController) EditProfile(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	var form dto.EditarPerfilForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, ctrl.sessions, http.StatusBadRequest, "editar_perfil.html", gin.H{
			"Form":   &form,
			"Errors": dto.FieldErrors(err),
		})
		return
	}

	_, err := ctrl.merchantSvc.UpdateProfile(c.Request.Context(), merchant.ID, &form)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			render(c, ctrl.sessions, http.StatusBadRequest, "editar_perfil.html", gin.H{
				"Form":   &form,
				"Errors": map[string]string{"email": err.Error()},
			})
			return
		}
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível atualizar o perfil.")
		c.Redirect(http.StatusFound, "/editar_perfil")
		return
	}

	ctrl.sessions.AddFlash(c, "success", "Seu perfil foi atualizado com sucesso!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// ==================== 注销 ====================

// DeleteAccount POST /excluir_conta
// 不可逆：远端图片尽力清理，商品行+商户行在一个事务里删光，然后清会话
func (ctrl *MerchantController) DeleteAccount(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	cleanupFailures, err := ctrl.merchantSvc.DeleteAccount(c.Request.Context(), merchant.ID)
	if err != nil {
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível eliminar a conta.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	ctrl.sessions.Logout(c)
	if cleanupFailures > 0 {
		// 部分失败要和完全成功区分开提示
		ctrl.sessions.AddFlash(c, "warning",
			"A sua conta foi eliminada, mas algumas imagens não puderam ser removidas do armazenamento.")
	} else {
		ctrl.sessions.AddFlash(c, "danger", "A sua conta foi eliminada com sucesso.")
	}
	c.Redirect(http.StatusFound, "/")
}

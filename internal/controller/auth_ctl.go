package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/metrics"
	"mercado_validade_v1_202608/internal/middleware"
	"mercado_validade_v1_202608/internal/service"
)

// AuthController 注册 / 登录 / 登出
type AuthController struct {
	merchantSvc *service.MerchantService
	sessions    *middleware.SessionManager
}

func NewAuthController(merchantSvc *service.MerchantService, sessions *middleware.SessionManager) *AuthController {
	return &AuthController{merchantSvc: merchantSvc, sessions: sessions}
}

// ==================== 注册 ====================

// ShowRegister 注册页 GET /cadastrar
func (ctrl *AuthController) ShowRegister(c *gin.Context) {
	render(c, ctrl.sessions, http.StatusOK, "register.html", gin.H{
		"Form": &dto.CadastroForm{},
	})
}

// Register 注册提交 POST /cadastrar
// 校验失败逐字段回显，不产生任何状态变更
func (ctrl *AuthController) Register(c *gin.Context) {
	var form dto.CadastroForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, ctrl.sessions, http.StatusBadRequest, "register.html", gin.H{
			"Form":   &form,
			"Errors": dto.FieldErrors(err),
		})
		return
	}

	_, err := ctrl.merchantSvc.Register(c.Request.Context(), &form)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			render(c, ctrl.sessions, http.StatusBadRequest, "register.html", gin.H{
				"Form":   &form,
				"Errors": map[string]string{"email": err.Error()},
			})
			return
		}
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível concluir o cadastro. Tente novamente.")
		render(c, ctrl.sessions, http.StatusInternalServerError, "register.html", gin.H{
			"Form": &form,
		})
		return
	}

	ctrl.sessions.AddFlash(c, "success", "Cadastro realizado com sucesso! Faça o login.")
	c.Redirect(http.StatusFound, "/login")
}

// ==================== 登录 ====================

// ShowLogin 登录页 GET /login
func (ctrl *AuthController) ShowLogin(c *gin.Context) {
	render(c, ctrl.sessions, http.StatusOK, "login.html", gin.H{
		"Form": &dto.LoginForm{},
		"Next": c.Query("next"),
	})
}

// Login 登录提交 POST /login
// 无此邮箱和密码错误给同一句提示，防账号枚举
func (ctrl *AuthController) Login(c *gin.Context) {
	metrics.IncAuthAttempt()

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.IncAuthError()
		render(c, ctrl.sessions, http.StatusBadRequest, "login.html", gin.H{
			"Form":   &form,
			"Errors": dto.FieldErrors(err),
			"Next":   c.PostForm("next"),
		})
		return
	}

	merchant, err := ctrl.merchantSvc.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		metrics.IncAuthError()
		ctrl.sessions.AddFlash(c, "danger", service.ErrInvalidCredentials.Error())
		render(c, ctrl.sessions, http.StatusUnauthorized, "login.html", gin.H{
			"Form": &form,
			"Next": c.PostForm("next"),
		})
		return
	}

	if err := ctrl.sessions.LoginMerchant(c, merchant.ID); err != nil {
		metrics.IncAuthError()
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível iniciar a sessão.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	metrics.IncAuthSuccess()
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

// safeNext 登录后的回跳地址，只认站内路径
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/dashboard"
}

// ==================== 登出 ====================

// Logout GET /logout
// 幂等：未登录时也只是清一次空会话再回首页
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/")
}

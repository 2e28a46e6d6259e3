package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mercado_validade_v1_202608/internal/controller"
	"mercado_validade_v1_202608/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	Auth     *controller.AuthController
	Merchant *controller.MerchantController
	Product  *controller.ProductController
}

// SetupRouter 注册所有路由
// templatesGlob 由调用方传入，测试里用相对路径指回 web/templates
func SetupRouter(sm *middleware.SessionManager, ctls *Controllers, templatesGlob string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.LoadHTMLGlob(templatesGlob)

	// 运维端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 公开页面
	r.GET("/", ctls.Product.Index)
	r.GET("/produto/:id", ctls.Product.Detail)
	r.GET("/logout", ctls.Auth.Logout)

	// 注册/登录：已登录用户直接进后台
	guest := r.Group("", sm.RedirectIfAuthed("/dashboard"))
	{
		guest.GET("/cadastrar", ctls.Auth.ShowRegister)
		guest.POST("/cadastrar", ctls.Auth.Register)
		guest.GET("/login", ctls.Auth.ShowLogin)
		guest.POST("/login", ctls.Auth.Login)
	}

	// 商户后台
	authed := r.Group("", sm.RequireAuth())
	{
		authed.GET("/dashboard", ctls.Merchant.Dashboard)
		authed.GET("/editar_perfil", ctls.Merchant.ShowEditProfile)
		authed.POST("/editar_perfil", ctls.Merchant.EditProfile)
		authed.POST("/adicionar_produto", ctls.Product.Add)
		authed.POST("/deletar_produto/:id", ctls.Product.Delete)
		authed.POST("/excluir_conta", ctls.Merchant.DeleteAccount)
	}

	return r
}

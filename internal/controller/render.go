package controller

import (
	"github.com/gin-gonic/gin"

	"mercado_validade_v1_202608/internal/middleware"
)

// render 统一模板出口：带上 flash 和登录态
func render(c *gin.Context, sm *middleware.SessionManager, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = sm.TakeFlashes(c)
	if m := middleware.CurrentMerchant(c); m != nil {
		data["CurrentMerchant"] = m
		data["LoggedIn"] = true
	} else {
		_, logged := sm.CurrentMerchantID(c)
		data["LoggedIn"] = logged
	}
	c.HTML(status, tmpl, data)
}

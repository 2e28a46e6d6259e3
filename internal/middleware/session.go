package middleware

import (
	"encoding/gob"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/internal/repository"
)

// ==================== 会话配置 ====================

const (
	sessionName = "mercado_session"

	keyMerchantID = "merchant_id"
	keyIssuedAt   = "issued_at"

	ctxMerchantKey = "current_merchant"
)

// LoginRequiredMessage 未登录访问受保护页面时的提示
const LoginRequiredMessage = "Por favor, faça login para acessar esta página."

// Flash 一次性页面提示
type Flash struct {
	Category string // success | danger | warning
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// ==================== SessionManager ====================

// SessionManager 签名 Cookie 会话
// 只存 {merchant_id, issued_at}，每个请求解析一次并换成商户快照放进上下文，
// 快照之外不直接改动当前商户
type SessionManager struct {
	store        *sessions.CookieStore
	merchantRepo repository.MerchantRepository
}

// NewSessionManager 创建会话管理器
func NewSessionManager(secret string, merchantRepo repository.MerchantRepository) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{
		store:        store,
		merchantRepo: merchantRepo,
	}
}

func (m *SessionManager) session(c *gin.Context) *sessions.Session {
	// 解码失败时 Get 返回一个全新会话，错误可以忽略
	s, _ := m.store.Get(c.Request, sessionName)
	return s
}

// ==================== 登录态 ====================

// LoginMerchant 建立登录态
func (m *SessionManager) LoginMerchant(c *gin.Context, merchantID int64) error {
	s := m.session(c)
	s.Values[keyMerchantID] = merchantID
	s.Values[keyIssuedAt] = time.Now().Unix()
	return s.Save(c.Request, c.Writer)
}

// Logout 清除登录态；未登录时调用等价于空操作
func (m *SessionManager) Logout(c *gin.Context) {
	s := m.session(c)
	delete(s.Values, keyMerchantID)
	delete(s.Values, keyIssuedAt)
	_ = s.Save(c.Request, c.Writer)
}

// CurrentMerchantID 读取会话中的商户 ID
func (m *SessionManager) CurrentMerchantID(c *gin.Context) (int64, bool) {
	s := m.session(c)
	id, ok := s.Values[keyMerchantID].(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// ==================== Flash ====================

// AddFlash 追加一条一次性提示
func (m *SessionManager) AddFlash(c *gin.Context, category, message string) {
	s := m.session(c)
	s.AddFlash(Flash{Category: category, Message: message})
	_ = s.Save(c.Request, c.Writer)
}

// TakeFlashes 取走全部提示（读即清除）
func (m *SessionManager) TakeFlashes(c *gin.Context) []Flash {
	s := m.session(c)
	raw := s.Flashes()
	if len(raw) > 0 {
		_ = s.Save(c.Request, c.Writer)
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}

// ==================== 路由守卫 ====================

// RequireAuth 受保护路由守卫
// 未登录（或账号已不存在）时带上回跳地址踢回登录页
func (m *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.CurrentMerchantID(c)
		if ok {
			merchant, err := m.merchantRepo.GetByID(c.Request.Context(), id)
			if err == nil && merchant != nil {
				c.Set(ctxMerchantKey, merchant)
				c.Next()
				return
			}
			// Cookie 还活着但账号没了（已注销），会话作废
			m.Logout(c)
		}

		m.AddFlash(c, "warning", LoginRequiredMessage)
		next := url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, "/login?next="+next)
		c.Abort()
	}
}

// RedirectIfAuthed 已登录用户访问注册/登录页时直接进后台
func (m *SessionManager) RedirectIfAuthed(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.CurrentMerchantID(c); ok {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentMerchant 取 RequireAuth 放进上下文的商户快照
func CurrentMerchant(c *gin.Context) *model.Merchant {
	v, ok := c.Get(ctxMerchantKey)
	if !ok {
		return nil
	}
	merchant, _ := v.(*model.Merchant)
	return merchant
}

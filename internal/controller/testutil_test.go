package controller_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mercado_validade_v1_202608/internal/controller"
	"mercado_validade_v1_202608/internal/middleware"
	"mercado_validade_v1_202608/internal/model"
	"mercado_validade_v1_202608/internal/repository"
	"mercado_validade_v1_202608/internal/router"
	"mercado_validade_v1_202608/internal/service"
	"mercado_validade_v1_202608/pkg/utils"
)

// ==================== 测试应用 ====================

// fakeStorage 记录上传/删除调用的内存存储
type fakeStorage struct {
	uploads    []string
	deletes    []string
	failUpload bool
}

func (f *fakeStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("bucket indisponível")
	}
	u := "https://cdn.test/" + utils.SecureFilename(filename)
	f.uploads = append(f.uploads, u)
	return u, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	f.deletes = append(f.deletes, url)
	return nil
}

// testApp 完整路由 + 内存库 + cookie 续传
type testApp struct {
	t       *testing.T
	engine  *gin.Engine
	db      *gorm.DB
	storage *fakeStorage
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Merchant{}, &model.Product{}))

	merchantRepo := repository.NewMerchantRepository(db)
	productRepo := repository.NewProductRepository(db)
	storage := &fakeStorage{}

	merchantSvc := service.NewMerchantService(merchantRepo, productRepo, storage)
	productSvc := service.NewProductService(productRepo, storage)

	sm := middleware.NewSessionManager("segredo-de-teste", merchantRepo)
	ctls := &router.Controllers{
		Auth:     controller.NewAuthController(merchantSvc, sm),
		Merchant: controller.NewMerchantController(merchantSvc, productSvc, sm),
		Product:  controller.NewProductController(productSvc, sm),
	}

	engine := router.SetupRouter(sm, ctls, "../../web/templates/*.html")

	return &testApp{
		t:       t,
		engine:  engine,
		db:      db,
		storage: storage,
		cookies: map[string]*http.Cookie{},
	}
}

// do 发请求并续传会话 Cookie（模拟浏览器）
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	resp := http.Response{Header: w.Header()}
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

// postMultipart 上架表单，fileName 为空时不带图片
func (a *testApp) postMultipart(path string, fields map[string]string, fileName string, fileData []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("imagem", fileName)
		require.NoError(a.t, err)
		_, err = fw.Write(fileData)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

// ==================== 业务捷径 ====================

func (a *testApp) register(email, password string) {
	w := a.postForm("/cadastrar", url.Values{
		"nome_comercio":   {"Mercearia Teste"},
		"email":           {email},
		"senha":           {password},
		"confirmar_senha": {password},
		"endereco":        {"Rua das Flores, 10"},
	})
	require.Equal(a.t, http.StatusFound, w.Code)
	require.Equal(a.t, "/login", w.Header().Get("Location"))
}

func (a *testApp) login(email, password string) *httptest.ResponseRecorder {
	return a.postForm("/login", url.Values{
		"email": {email},
		"senha": {password},
	})
}

func (a *testApp) addProduct(name, fileName string, fileData []byte) *httptest.ResponseRecorder {
	return a.postMultipart("/adicionar_produto", map[string]string{
		"nome":           name,
		"preco_original": "12.50",
		"preco_desconto": "8.90",
		"validade":       "2025-06-01",
		"quantidade":     "10",
	}, fileName, fileData)
}

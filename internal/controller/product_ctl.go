package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mercado_validade_v1_202608/internal/api/dto"
	"mercado_validade_v1_202608/internal/metrics"
	"mercado_validade_v1_202608/internal/middleware"
	"mercado_validade_v1_202608/internal/service"
	"mercado_validade_v1_202608/pkg/utils"
)

// ProductController 公开列表/详情 + 商户上架/下架
type ProductController struct {
	productSvc *service.ProductService
	sessions   *middleware.SessionManager
}

func NewProductController(productSvc *service.ProductService, sessions *middleware.SessionManager) *ProductController {
	return &ProductController{productSvc: productSvc, sessions: sessions}
}

// ==================== 公开页面 ====================

// Index 公开列表 GET /
// 有效期升序：临期生鲜抢救场，越紧迫越靠前
func (ctrl *ProductController) Index(c *gin.Context) {
	products, err := ctrl.productSvc.ListAll(c.Request.Context())
	if err != nil {
		render(c, ctrl.sessions, http.StatusInternalServerError, "index.html", gin.H{
			"Products": nil,
		})
		return
	}
	render(c, ctrl.sessions, http.StatusOK, "index.html", gin.H{
		"Products": products,
	})
}

// Detail 商品详情 GET /produto/:id
func (ctrl *ProductController) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		render(c, ctrl.sessions, http.StatusNotFound, "404.html", nil)
		return
	}

	product, err := ctrl.productSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		render(c, ctrl.sessions, http.StatusNotFound, "404.html", nil)
		return
	}

	render(c, ctrl.sessions, http.StatusOK, "detalhe_produto.html", gin.H{
		"Product": product,
	})
}

// ==================== 上架 ====================

// Add 上架商品 POST /adicionar_produto
// 校验失败逐字段 flash，不建任何行；图片扩展名白名单在这里和服务层各查一次
func (ctrl *ProductController) Add(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	var form dto.ProdutoForm
	if err := c.ShouldBind(&form); err != nil {
		for field, msg := range dto.FieldErrors(err) {
			ctrl.sessions.AddFlash(c, "danger", fmt.Sprintf("Erro no campo '%s': %s", field, msg))
		}
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	image, rejected := ctrl.readImage(c)
	if rejected {
		ctrl.sessions.AddFlash(c, "warning", service.ErrImageNotAllowed.Error())
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	_, err := ctrl.productSvc.AddProduct(c.Request.Context(), merchant.ID, &form, image)
	switch {
	case err == nil:
		metrics.IncProductOperation("create")
		ctrl.sessions.AddFlash(c, "success", "Produto adicionado com sucesso!")
	case errors.Is(err, service.ErrImageNotAllowed):
		ctrl.sessions.AddFlash(c, "warning", err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		// 上传失败直接把底层错误文案给商户看，不重试
		metrics.IncUploadError()
		ctrl.sessions.AddFlash(c, "danger", err.Error())
	default:
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível adicionar o produto.")
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// readImage 读取可选的 multipart 图片
// rejected=true 表示带了文件但扩展名不在白名单（handler 层的第二道检查）
func (ctrl *ProductController) readImage(c *gin.Context) (image *service.ImageUpload, rejected bool) {
	fh, err := c.FormFile("imagem")
	if err != nil || fh == nil || fh.Filename == "" {
		return nil, false
	}

	if !utils.AllowedImageExt(fh.Filename) {
		return nil, true
	}

	f, err := fh.Open()
	if err != nil {
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false
	}

	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, false
}

// ==================== 下架 ====================

// Delete 删除商品 POST /deletar_produto/:id
// 非本人商品用 flash 提示而不是 HTTP 错误码，和其余后台操作保持一致
func (ctrl *ProductController) Delete(c *gin.Context) {
	merchant := middleware.CurrentMerchant(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		render(c, ctrl.sessions, http.StatusNotFound, "404.html", nil)
		return
	}

	err = ctrl.productSvc.DeleteProduct(c.Request.Context(), merchant.ID, id)
	switch {
	case err == nil:
		metrics.IncProductOperation("delete")
		ctrl.sessions.AddFlash(c, "success", "Produto deletado com sucesso!")
	case errors.Is(err, service.ErrProductNotFound):
		render(c, ctrl.sessions, http.StatusNotFound, "404.html", nil)
		return
	case errors.Is(err, service.ErrNotProductOwner):
		ctrl.sessions.AddFlash(c, "danger", err.Error())
	default:
		ctrl.sessions.AddFlash(c, "danger", "Não foi possível deletar o produto.")
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

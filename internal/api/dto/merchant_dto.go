package dto

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ==================== 商户表单 ====================

// CadastroForm 注册表单
type CadastroForm struct {
	BusinessName    string `form:"nome_comercio" binding:"required"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"senha" binding:"required,min=6"`
	ConfirmPassword string `form:"confirmar_senha" binding:"required,eqfield=Password"`
	Address         string `form:"endereco" binding:"required"`
}

// LoginForm 登录表单
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"senha" binding:"required"`
}

// EditarPerfilForm 店铺资料编辑表单（无密码修改路径）
type EditarPerfilForm struct {
	BusinessName string `form:"nome_comercio" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	Address      string `form:"endereco" binding:"required"`
}

// ==================== 校验错误翻译 ====================

func init() {
	// 让校验错误用 form 标签名报告字段，和页面字段对得上
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// FieldErrors 把绑定/校验错误翻译成 字段名 -> 葡语提示
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["formulario"] = "Dados do formulário inválidos."
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = translate(fe)
	}
	return out
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo é obrigatório."
	case "email":
		return "Endereço de email inválido."
	case "min":
		return fmt.Sprintf("Deve ter pelo menos %s caracteres.", fe.Param())
	case "eqfield":
		return "As senhas devem coincidir."
	case "gt":
		return "Deve ser um valor maior que zero."
	case "gte":
		return "Não pode ser um valor negativo."
	default:
		return "Valor inválido."
	}
}

package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ummet-social/moderation-hub/internal/model"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get 获取验证器实例
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		configure(validate)
	})
	return validate
}

// Init 初始化验证器并绑定到 Gin
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

func configure(v *validator.Validate) {
	// 使用 JSON tag 作为字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidators(v)
}

// registerCustomValidators 注册枚举校验
func registerCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		return model.ContentType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return model.ReportStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		switch model.ReportReason(fl.Field().String()) {
		case model.ReportReasonSpam, model.ReportReasonInappropriate, model.ReportReasonHarassment,
			model.ReportReasonFake, model.ReportReasonOther:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("ban_type", func(fl validator.FieldLevel) bool {
		return model.BanType(fl.Field().String()).IsValid()
	})
}

// Validate 验证结构体
func Validate(s interface{}) error {
	return Get().Struct(s)
}

// ValidationErrors 格式化验证错误
func ValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "min":
				errors[field] = field + " must be at least " + e.Param()
			case "max":
				errors[field] = field + " must be at most " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "content_type":
				errors[field] = field + " must be one of: post, comment, dua-request"
			case "report_status":
				errors[field] = field + " must be one of: pending, reviewed, resolved, dismissed"
			case "report_reason":
				errors[field] = field + " must be one of: spam, inappropriate, harassment, fake, other"
			case "ban_type":
				errors[field] = field + " must be one of: temporary, permanent"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

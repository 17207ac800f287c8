package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

// RegisterValidators installs the custom rules on gin's validator and makes
// field errors report json names instead of Go field names
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	return validation.Register(v)
}

// BindJSON binds the request body into obj, writing a 400 response and
// returning false when the body is malformed or fails validation
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindingError(c, err)
		return false
	}
	return true
}

// HandleBindingError writes a validation failure response for err
func HandleBindingError(c *gin.Context, err error) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	validationErrors := dto.NewValidationErrors()
	for _, fe := range fieldErrors {
		validationErrors.AddError(fe.Field(), validation.Message(fe))
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	if len(validationErrors.Errors) == 1 {
		errorDetail.Message = validationErrors.Errors[0].Message
		errorDetail = errorDetail.WithField(validationErrors.Errors[0].Field)
	}
	errorDetail = errorDetail.WithDetails(validationErrors.Errors)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

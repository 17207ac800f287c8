// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// maxUploadSize bounds multipart bodies accepted by upload endpoints
const maxUploadSize = 10 << 20

// isMultipart reports whether the request carries a multipart form
func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/form-data")
}

// limitUpload caps the request body before any multipart parsing happens
func limitUpload(ctx *gin.Context) {
	if isMultipart(ctx) {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)
	}
}

// bindJSONOrForm binds JSON bodies and multipart forms alike
func bindJSONOrForm(ctx *gin.Context, obj interface{}) bool {
	limitUpload(ctx)
	if err := ctx.ShouldBind(obj); err != nil {
		middleware.HandleBindingError(ctx, err)
		return false
	}
	return true
}

// optionalFile returns the named multipart file, or nil when it is absent
func optionalFile(ctx *gin.Context, name string) (*multipart.FileHeader, error) {
	if !isMultipart(ctx) {
		return nil, nil
	}

	fileHeader, err := ctx.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewValidationError(name, "could not read uploaded file")
	}
	return fileHeader, nil
}

// requiredFile returns the named multipart file or a validation error
func requiredFile(ctx *gin.Context, name string) (*multipart.FileHeader, error) {
	limitUpload(ctx)
	fileHeader, err := optionalFile(ctx, name)
	if err != nil {
		return nil, err
	}
	if fileHeader == nil {
		return nil, apperrors.NewValidationError(name, name+" file is required")
	}
	return fileHeader, nil
}

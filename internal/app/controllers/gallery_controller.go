package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/helpers"
)

// GalleryController serves the public photo gallery
type GalleryController struct {
	galleryService services.GalleryService
}

// NewGalleryController creates a new GalleryController
func NewGalleryController(galleryService services.GalleryService) *GalleryController {
	return &GalleryController{galleryService: galleryService}
}

// List returns gallery images
// @Summary List gallery images
// @Tags gallery
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} dto.APIResponse{data=[]models.GalleryImage} "Images"
// @Router /gallery [get]
func (c *GalleryController) List(ctx *gin.Context) {
	images, err := c.galleryService.List(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(images))
}

// Upload adds an image to the gallery
// @Summary Upload a gallery image
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image"
// @Param category formData string true "Category"
// @Param altText formData string false "Alternative text"
// @Success 201 {object} dto.APIResponse{data=models.GalleryImage} "Image uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing file or category"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Router /gallery [post]
func (c *GalleryController) Upload(ctx *gin.Context) {
	var req dto.GalleryUploadRequest
	if !bindJSONOrForm(ctx, &req) {
		return
	}
	fileHeader, err := requiredFile(ctx, "image")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	image, err := c.galleryService.Upload(ctx.Request.Context(), middleware.GetActor(ctx), &req, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(image, "Image uploaded"))
}

// Delete removes a gallery image
// @Summary Delete a gallery image
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param id path int true "Image ID"
// @Success 200 {object} dto.APIResponse "Image deleted"
// @Failure 403 {object} dto.ErrorResponse "Club leadership required"
// @Failure 404 {object} dto.ErrorResponse "Image not found"
// @Router /gallery/{id} [delete]
func (c *GalleryController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseInt64Param(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.galleryService.Delete(ctx.Request.Context(), middleware.GetActor(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Image deleted"))
}

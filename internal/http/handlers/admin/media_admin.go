package admin

import (
	"strconv"

	"github.com/maison-next/internal/http/response"
	"github.com/maison-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// UploadMedia 上传媒体文件
func (h *Handler) UploadMedia(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file is required", err)
		return
	}

	asset, err := h.MediaService.SaveFile(file, c.DefaultPostForm("scene", "common"), &adminID)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, asset)
}

// ListMedia 媒体列表
func (h *Handler) ListMedia(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	assets, total, err := h.MediaService.List(repository.MediaListFilter{
		Page:     page,
		PageSize: pageSize,
		Scene:    c.Query("scene"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "media fetch failed", err)
		return
	}
	response.SuccessWithPage(c, assets, response.NewPagination(page, pageSize, total))
}

// DeleteMedia 删除媒体
func (h *Handler) DeleteMedia(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid media id", nil)
		return
	}
	if svcErr := h.MediaService.Delete(uint(id)); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	response.SuccessWithMsg(c, "deleted", nil)
}

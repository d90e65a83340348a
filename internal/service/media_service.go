package service

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maison-next/internal/config"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/repository"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	"product":  {},
	"banner":   {},
	"category": {},
	"common":   {},
}

// MediaService 媒体上传服务
type MediaService struct {
	cfg  *config.Config
	repo repository.MediaRepository
}

// NewMediaService 创建媒体服务实例
func NewMediaService(cfg *config.Config, repo repository.MediaRepository) *MediaService {
	return &MediaService{cfg: cfg, repo: repo}
}

// SaveFile 保存上传文件并登记媒体记录
func (s *MediaService) SaveFile(file *multipart.FileHeader, scene string, uploadedBy *uint) (*models.MediaAsset, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return nil, fmt.Errorf("文件大小超过限制（最大 %d MB）", s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return nil, fmt.Errorf("文件扩展名不被允许: %s", ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("文件类型不被允许: %s", contentType)
		}
	}

	width, height := 0, 0
	if strings.HasPrefix(contentType, "image/") {
		cfgImg, _, err := image.DecodeConfig(src)
		if err != nil {
			return nil, fmt.Errorf("图片解析失败: %w", err)
		}
		width, height = cfgImg.Width, cfgImg.Height
		if s.cfg.Upload.MaxWidth > 0 && width > s.cfg.Upload.MaxWidth {
			return nil, fmt.Errorf("图片宽度超过限制（最大 %d）", s.cfg.Upload.MaxWidth)
		}
		if s.cfg.Upload.MaxHeight > 0 && height > s.cfg.Upload.MaxHeight {
			return nil, fmt.Errorf("图片高度超过限制（最大 %d）", s.cfg.Upload.MaxHeight)
		}
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	scene = normalizeUploadScene(scene)
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	now := time.Now()
	relPath := filepath.Join("uploads", scene, now.Format("2006"), now.Format("01"), filename)
	savePath := relPath
	if dir := strings.TrimSpace(s.cfg.Upload.Dir); dir != "" {
		savePath = filepath.Join(dir, relPath)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return nil, err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		Scene:       scene,
		Path:        filepath.ToSlash(relPath),
		OriginName:  file.Filename,
		ContentType: contentType,
		SizeBytes:   file.Size,
		Width:       width,
		Height:      height,
		UploadedBy:  uploadedBy,
	}
	if err := s.repo.Create(asset); err != nil {
		// 落库失败时清理磁盘文件
		if removeErr := os.Remove(savePath); removeErr != nil {
			logger.Warnw("media_orphan_cleanup_failed", "path", savePath, "error", removeErr)
		}
		return nil, err
	}
	return asset, nil
}

// List 媒体列表
func (s *MediaService) List(filter repository.MediaListFilter) ([]models.MediaAsset, int64, error) {
	return s.repo.List(filter)
}

// Delete 删除媒体记录与磁盘文件
func (s *MediaService) Delete(id uint) error {
	asset, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if asset == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	fullPath := asset.Path
	if dir := strings.TrimSpace(s.cfg.Upload.Dir); dir != "" {
		fullPath = filepath.Join(dir, asset.Path)
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.Warnw("media_file_remove_failed", "path", fullPath, "error", err)
	}
	return nil
}

func normalizeUploadScene(scene string) string {
	scene = strings.ToLower(strings.TrimSpace(scene))
	if _, ok := allowedUploadScenes[scene]; ok {
		return scene
	}
	return "common"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, item := range allowed {
		candidate := strings.ToLower(strings.TrimSpace(item))
		if candidate == "" {
			continue
		}
		if !strings.HasPrefix(candidate, ".") {
			candidate = "." + candidate
		}
		if candidate == ext {
			return true
		}
	}
	return false
}

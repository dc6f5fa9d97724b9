package services

import (
	"bytes"
	"fmt"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	// Регистрируем WebP декодер для image.Decode
	_ "golang.org/x/image/webp"
)

// Ограничения загрузки изображений продуктов
const (
	MaxImageSize  = 5 * 1024 * 1024 // 5 MB
	maxImageWidth = 800
	jpegQuality   = 80
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// ImageService сохраняет загруженные изображения продуктов.
// Оригинал остается на диске, рядом сохраняется сжатая JPEG-копия
// (ширина не больше 800px), и именно ее путь хранит продукт.
type ImageService struct {
	uploadDir string
}

// NewImageService создает сервис изображений и каталог загрузок
func NewImageService(uploadDir string) (*ImageService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог загрузок %s: %w", uploadDir, err)
	}
	return &ImageService{uploadDir: uploadDir}, nil
}

// Process валидирует, сохраняет и сжимает загруженный файл.
// Возвращает веб-путь сжатой копии вида /uploads/compressed-xxx.jpg.
func (s *ImageService) Process(file *multipart.FileHeader) (string, error) {
	if file.Size > MaxImageSize {
		return "", fmt.Errorf("файл больше 5 МБ: %w", ErrValidation)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("только PNG, JPG, JPEG и WebP форматы поддерживаются: %w", ErrValidation)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	defer src.Close()

	raw := new(bytes.Buffer)
	if _, err := raw.ReadFrom(src); err != nil {
		return "", fmt.Errorf("не удалось прочитать загруженный файл: %w", err)
	}

	// Сохраняем оригинал
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	stem := fmt.Sprintf("image-%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	originalPath := filepath.Join(s.uploadDir, stem+ext)
	if err := os.WriteFile(originalPath, raw.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("не удалось сохранить оригинал: %w", err)
	}

	// Декодируем и сжимаем
	img, err := imaging.Decode(bytes.NewReader(raw.Bytes()))
	if err != nil {
		return "", fmt.Errorf("не удалось декодировать изображение: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	compressedName := "compressed-" + stem + ".jpg"
	compressedPath := filepath.Join(s.uploadDir, compressedName)
	if err := imaging.Save(img, compressedPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("не удалось сохранить сжатую копию: %w", err)
	}

	return "/uploads/" + compressedName, nil
}

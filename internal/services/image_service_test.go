package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadedFile собирает multipart.FileHeader так же, как его видит хендлер
func uploadedFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("image")
	require.NoError(t, err)
	return header
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestImageService_Process(t *testing.T) {
	dir := t.TempDir()
	service, err := NewImageService(dir)
	require.NoError(t, err)

	file := uploadedFile(t, "pizza.png", "image/png", pngBytes(t, 1200, 600))

	webPath, err := service.Process(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(webPath, "/uploads/compressed-"))
	assert.True(t, strings.HasSuffix(webPath, ".jpg"))

	// Сжатая копия не шире 800px
	compressed, err := imaging.Open(filepath.Join(dir, filepath.Base(webPath)))
	require.NoError(t, err)
	assert.Equal(t, 800, compressed.Bounds().Dx())

	// Оригинал тоже сохранен
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestImageService_Process_SmallImageNotUpscaled(t *testing.T) {
	service, err := NewImageService(t.TempDir())
	require.NoError(t, err)

	file := uploadedFile(t, "logo.png", "image/png", pngBytes(t, 400, 200))

	webPath, err := service.Process(file)
	require.NoError(t, err)
	assert.NotEmpty(t, webPath)
}

func TestImageService_Process_RejectsUnsupportedType(t *testing.T) {
	service, err := NewImageService(t.TempDir())
	require.NoError(t, err)

	file := uploadedFile(t, "doc.gif", "image/gif", []byte("GIF89a"))

	_, err = service.Process(file)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestImageService_Process_RejectsOversized(t *testing.T) {
	service, err := NewImageService(t.TempDir())
	require.NoError(t, err)

	big := make([]byte, MaxImageSize+1)
	file := uploadedFile(t, "big.jpg", "image/jpeg", big)

	_, err = service.Process(file)
	assert.ErrorIs(t, err, ErrValidation)
}

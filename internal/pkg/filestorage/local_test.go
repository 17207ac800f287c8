package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/domain"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "https://cdn.club.example/uploads/")
	require.NoError(t, err)

	stored, err := ls.Save(context.Background(), fileHeader(t, "Avatar.PNG", pngHeader), domain.ResourceTypeAvatar)
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.MimeType)
	assert.True(t, strings.HasPrefix(stored.FileURL, "https://cdn.club.example/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(stored.FileURL, ".png"))

	onDisk := filepath.Join(dir, "avatars", filepath.Base(stored.FileURL))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	require.NoError(t, ls.Delete(context.Background(), stored.FileURL))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, ls.Delete(context.Background(), stored.FileURL))
}

func TestLocalStorage_RejectsType(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = ls.Save(context.Background(), fileHeader(t, "notes.txt", []byte("plain text")), domain.ResourceTypeGallery)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStorage_RejectsForeignPaths(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	assert.ErrorIs(t, ls.Delete(context.Background(), "https://elsewhere.example/x.png"), ErrInvalidStoragePath)
	assert.ErrorIs(t, ls.Delete(context.Background(), "/uploads/../../etc/passwd"), ErrInvalidStoragePath)
}

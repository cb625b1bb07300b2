package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("imageFile", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["imageFile"][0]
}

func TestSaveAndRemove(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	url, err := storage.Save(multipartFile(t, "photo.JPG", "fake image"), "Ahmed Salah")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.Contains(t, url, "Ahmed_Salah")

	name := strings.TrimPrefix(url, URLPrefix)
	data, err := os.ReadFile(filepath.Join(storage.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "fake image", string(data))

	require.NoError(t, storage.Remove(url))
	_, err = os.Stat(filepath.Join(storage.Dir(), name))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveIgnoresForeignAndAbsent(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Remove("https://example.com/image.png"))
	assert.NoError(t, storage.Remove(URLPrefix+"never-existed.png"))
}

func TestRemoveBlocksTraversal(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("keep me"), 0o600))

	require.NoError(t, storage.Remove(URLPrefix+"../secret.txt"))
	_, err = os.Stat(secret)
	assert.NoError(t, err, "file outside the upload dir must survive")
}

func TestSaveDefaultsName(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	url, err := storage.Save(multipartFile(t, "noext", "x"), "  ")
	require.NoError(t, err)
	assert.Contains(t, url, "upload-")
	assert.True(t, strings.HasSuffix(url, ".png"))
}

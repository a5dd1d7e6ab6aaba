package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "https://cdn.example/files/")
	require.NoError(t, err)

	require.NoError(t, store.Upload(context.Background(), "photos/a.jpg", []byte("jpeg")))
	data, err := os.ReadFile(filepath.Join(dir, "photos", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
	assert.Equal(t, "https://cdn.example/files/photos/a.jpg", store.PublicURL("photos/a.jpg"))

	require.NoError(t, store.Delete(context.Background(), "photos/a.jpg"))
	require.NoError(t, store.Delete(context.Background(), "photos/a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "photos", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	assert.Error(t, store.Upload(context.Background(), "../escape.txt", []byte("x")))
	assert.Error(t, store.Upload(context.Background(), "", []byte("x")))
}

func TestUploadHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Upload(ctx, "a.png", nil), context.Canceled)
}

func TestRandomName(t *testing.T) {
	pattern := regexp.MustCompile(`^photos/student-[0-9a-f-]{36}\.png$`)
	a := RandomName("photos", "student", "Me.PNG", "")
	b := RandomName("photos", "student", "Me.PNG", "")
	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^logo-[0-9a-f-]{36}\.jpg$`, RandomName("", "logo", "x.jpeg", ".jpg"))

}

func TestDetectImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	contentType, ext, ok := DetectImage(png)
	assert.True(t, ok)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, ".png", ext)

	_, _, ok = DetectImage([]byte("%PDF-1.4 not an image"))
	assert.False(t, ok)
}

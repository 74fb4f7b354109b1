package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listaai/internal/config"
)

func TestLocalDisk_PutDeleteURL(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewLocalDisk(dir, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, disk.Put(ctx, "lists/1/cover.png", strings.NewReader("png"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "lists", "1", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/uploads/lists/1/cover.png", disk.URL("lists/1/cover.png"))

	require.NoError(t, disk.Delete(ctx, "lists/1/cover.png"))
	require.NoError(t, disk.Delete(ctx, "lists/1/cover.png"))
	_, err = os.Stat(filepath.Join(dir, "lists", "1", "cover.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalDisk_RejectsEscapingPaths(t *testing.T) {
	disk, err := NewLocalDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)
	err = disk.Put(context.Background(), "../evil.png", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Driver: "s3"})
	assert.Error(t, err, "bucket is required")
}

func TestS3Disk_PutAgainstFakeEndpoint(t *testing.T) {
	var gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	disk, err := NewS3Disk(context.Background(), config.StorageConfig{
		S3Bucket:   "images",
		S3Region:   "us-east-1",
		S3Key:      "key",
		S3Secret:   "secret",
		S3Endpoint: srv.URL,
		S3URL:      "https://cdn.example.com/",
	})
	require.NoError(t, err)

	require.NoError(t, disk.Put(context.Background(), "lists/9/a.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	assert.Equal(t, "/images/lists/9/a.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Contains(t, gotBody, "jpeg")
	assert.Equal(t, "https://cdn.example.com/lists/9/a.jpg", disk.URL("lists/9/a.jpg"))
}

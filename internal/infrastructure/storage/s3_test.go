package storage

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/pkg/config"
)

func minioConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:       "http://localhost:9000",
		Region:         "us-east-1",
		Bucket:         "dealerhub",
		AccessKey:      "minio",
		SecretKey:      "minio-secret",
		UsePathStyle:   true,
		PresignMinutes: 10,
	}
}

func TestNewS3Storage_ValidaConfig(t *testing.T) {
	cfg := minioConfig()
	cfg.Bucket = ""
	_, err := NewS3Storage(context.Background(), cfg)
	assert.Error(t, err, "bucket requerido")

	cfg = minioConfig()
	cfg.SecretKey = ""
	_, err = NewS3Storage(context.Background(), cfg)
	assert.Error(t, err, "credenciales requeridas")
}

func TestPresignPut_FirmaLocal(t *testing.T) {
	s, err := NewS3Storage(context.Background(), minioConfig())
	require.NoError(t, err)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	up, err := s.PresignPut(context.Background(), "dealers/d1/logo/abc.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, up.Method)
	assert.True(t, strings.HasPrefix(up.URL, "http://localhost:9000/dealerhub/dealers/d1/logo/abc.png?"), up.URL)
	assert.Contains(t, up.URL, "X-Amz-Signature=")
	assert.Contains(t, up.URL, "X-Amz-Expires=600")
	assert.Equal(t, "http://localhost:9000/dealerhub/dealers/d1/logo/abc.png", up.PublicURL)
	assert.Equal(t, fixed.Add(10*time.Minute), up.ExpiresAt)
}

func TestPublicBaseURL(t *testing.T) {
	cfg := minioConfig()
	cfg.PublicBaseURL = "https://cdn.dealerhub.co/"
	assert.Equal(t, "https://cdn.dealerhub.co", publicBaseURL(cfg, cfg.Endpoint, cfg.Region))

	cfg = minioConfig()
	assert.Equal(t, "https://dealerhub.s3.sa-east-1.amazonaws.com", publicBaseURL(cfg, "", "sa-east-1"))
}

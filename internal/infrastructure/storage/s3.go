// Package storage almacenamiento de objetos compatible con S3 (AWS, MinIO, R2...).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/pkg/config"
)

var _ ports.ObjectStorage = (*S3Storage)(nil)

// S3Storage firma URLs PUT para que el navegador suba logos e imágenes directo al bucket.
type S3Storage struct {
	presign    *s3.PresignClient
	bucket     string
	publicBase string
	expiration time.Duration
	now        func() time.Time
}

// NewS3Storage construye el cliente. No hace llamadas de red: firmar es local.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage: credenciales requeridas")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: config AWS: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Storage{
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: publicBaseURL(cfg, endpoint, region),
		expiration: cfg.PresignExpiration(),
		now:        time.Now,
	}, nil
}

// publicBaseURL URL desde la que se sirven los objetos una vez subidos.
func publicBaseURL(cfg config.StorageConfig, endpoint, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case endpoint != "":
		return endpoint + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

// PresignPut URL firmada para PUT con el Content-Type fijado en la firma.
func (s *S3Storage) PresignPut(ctx context.Context, key, contentType string) (*ports.PresignedUpload, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiration))
	if err != nil {
		return nil, fmt.Errorf("storage: firmar %s: %w", key, err)
	}
	return &ports.PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		PublicURL: s.publicBase + "/" + key,
		ExpiresAt: s.now().Add(s.expiration),
	}, nil
}

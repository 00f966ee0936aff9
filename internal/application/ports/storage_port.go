package ports

import (
	"context"
	"time"
)

// PresignedUpload URL firmada para que el cliente suba el objeto directamente al bucket.
type PresignedUpload struct {
	URL       string
	Method    string
	PublicURL string
	ExpiresAt time.Time
}

// ObjectStorage define el puerto de salida para almacenamiento de objetos (S3 compatible).
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}

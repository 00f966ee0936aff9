package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/domain"
)

var uploadExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadUseCase URLs prefirmadas para imágenes del dealer.
type UploadUseCase struct {
	storage ports.ObjectStorage
}

// NewUploadUseCase storage nil = almacenamiento no configurado.
func NewUploadUseCase(storage ports.ObjectStorage) *UploadUseCase {
	return &UploadUseCase{storage: storage}
}

// PresignUpload devuelve la URL PUT y la URL pública. Clave: dealers/<dealer>/<kind>/<uuid>.<ext>.
func (uc *UploadUseCase) PresignUpload(ctx context.Context, dealerID string, in dto.PresignUploadRequest) (*dto.PresignUploadResponse, error) {
	if uc.storage == nil {
		return nil, domain.ErrUnavailable
	}
	switch in.Kind {
	case "logo", "banner", "product":
	default:
		return nil, domain.ErrInvalidInput
	}
	ext, ok := uploadExtensions[in.ContentType]
	if !ok || dealerID == "" {
		return nil, domain.ErrInvalidInput
	}
	key := fmt.Sprintf("dealers/%s/%s/%s.%s", dealerID, in.Kind, uuid.New().String(), ext)
	p, err := uc.storage.PresignPut(ctx, key, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return &dto.PresignUploadResponse{
		UploadURL: p.URL,
		Method:    p.Method,
		ObjectKey: key,
		PublicURL: p.PublicURL,
		ExpiresAt: p.ExpiresAt,
	}, nil
}

package dto

import "time"

// PresignUploadRequest solicitud de URL firmada para subir una imagen.
type PresignUploadRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=logo banner product"`
	ContentType string `json:"content_type" validate:"required,oneof=image/png image/jpeg image/webp image/gif"`
}

// PresignUploadResponse URL de subida (PUT) y URL pública a guardar en la entidad.
type PresignUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ObjectKey string    `json:"object_key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

// sessionTTL tiempo máximo que un cambio de rol o estado tarda en verse si falla la invalidación.
const sessionTTL = time.Minute

// Session estado vigente del usuario autenticado. Manda sobre el rol y el dealer del token.
type Session struct {
	UserID   string
	DealerID string
	Role     string
}

type sessionRecord struct {
	DealerID string `json:"dealer_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// SessionKey clave de caché del estado de un usuario.
func SessionKey(userID string) string { return "session:" + userID }

// DealerStatusKey clave de caché del estado de un dealer.
func DealerStatusKey(dealerID string) string { return "dealer-status:" + dealerID }

// Session recarga rol, dealer y estado del usuario del token.
//   - ErrUnauthorized si el usuario ya no existe.
//   - ErrForbidden si está suspendido o su dealer no está activo.
func (uc *AuthUseCase) Session(ctx context.Context, userID string) (*Session, error) {
	rec, err := uc.sessionRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrUnauthorized
	}
	if rec.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	if rec.DealerID != "" && entity.IsStaffRole(rec.Role) {
		status, err := uc.dealerStatus(ctx, rec.DealerID)
		if err != nil {
			return nil, err
		}
		if status != entity.DealerStatusActive {
			return nil, domain.ErrForbidden
		}
	}
	return &Session{UserID: userID, DealerID: rec.DealerID, Role: rec.Role}, nil
}

func (uc *AuthUseCase) sessionRecord(ctx context.Context, userID string) (*sessionRecord, error) {
	key := SessionKey(userID)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		var rec sessionRecord
		if json.Unmarshal(raw, &rec) == nil {
			return &rec, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("caché no disponible")
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	rec := &sessionRecord{DealerID: user.DealerID, Role: user.Role, Status: user.Status}
	if raw, err := json.Marshal(rec); err == nil {
		if err := uc.cache.Set(ctx, key, raw, sessionTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar la sesión en caché")
		}
	}
	return rec, nil
}

func (uc *AuthUseCase) dealerStatus(ctx context.Context, dealerID string) (string, error) {
	key := DealerStatusKey(dealerID)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		return string(raw), nil
	}
	dealer, err := uc.dealerRepo.GetByID(ctx, dealerID)
	if err != nil {
		return "", err
	}
	if dealer == nil {
		return "", nil
	}
	if err := uc.cache.Set(ctx, key, []byte(dealer.Status), sessionTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el estado del dealer en caché")
	}
	return dealer.Status, nil
}

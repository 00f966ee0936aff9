package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

// UserUseCase registro de usuarios de la plataforma (superadmin): listado, rol, ciclo de vida.
type UserUseCase struct {
	repo  repository.UserRepository
	cache ports.Cache
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, cache ports.Cache) *UserUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &UserUseCase{repo: repo, cache: cache}
}

// List usuarios filtrados por rol, estado, dealer y búsqueda en nombre/email.
func (uc *UserUseCase) List(ctx context.Context, in dto.UserListRequest) (*dto.UserListResponse, error) {
	in.DefaultPage()
	if in.Role != "" && !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	list, total, err := uc.repo.List(ctx, repository.UserFilter{
		Role:     in.Role,
		Status:   in.Status,
		DealerID: in.DealerID,
		Search:   strings.TrimSpace(in.Search),
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total}}, nil
}

// target obtiene el usuario objetivo; actuar sobre uno mismo está prohibido.
func (uc *UserUseCase) target(ctx context.Context, actorID, id string) (*entity.User, error) {
	if actorID == id {
		return nil, domain.ErrForbidden
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// UpdateRole cambia el rol. Los roles de personal exigen dealer; los de plataforma no lo admiten.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actorID, id, role string) (*dto.UserResponse, error) {
	if !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	u, err := uc.target(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if entity.IsStaffRole(role) != (u.DealerID != "") {
		return nil, domain.ErrInvalidInput
	}
	from := u.Role
	u.Role = role
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.invalidatePermissions(ctx, u.ID)
	log.Info().Str("user_id", u.ID).Str("actor_id", actorID).Str("from", from).Str("to", role).Msg("rol de usuario actualizado")
	return auth.ToUserResponse(u), nil
}

// SetStatus suspende o reactiva un usuario.
func (uc *UserUseCase) SetStatus(ctx context.Context, actorID, id, status string) (*dto.UserResponse, error) {
	if status != entity.UserStatusActive && status != entity.UserStatusSuspended {
		return nil, domain.ErrInvalidInput
	}
	u, err := uc.target(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.invalidatePermissions(ctx, u.ID)
	log.Info().Str("user_id", u.ID).Str("actor_id", actorID).Str("status", status).Msg("estado de usuario actualizado")
	return auth.ToUserResponse(u), nil
}

// Delete elimina un usuario (sus permisos caen en cascada).
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	u, err := uc.target(ctx, actorID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, u.ID); err != nil {
		return err
	}
	uc.invalidatePermissions(ctx, u.ID)
	log.Info().Str("user_id", u.ID).Str("actor_id", actorID).Msg("usuario eliminado")
	return nil
}

// invalidatePermissions descarta permisos y sesión cacheados: el cambio aplica en la siguiente petición.
func (uc *UserUseCase) invalidatePermissions(ctx context.Context, userID string) {
	if err := uc.cache.Delete(ctx, permissionsKey(userID), auth.SessionKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar permisos en caché")
	}
}

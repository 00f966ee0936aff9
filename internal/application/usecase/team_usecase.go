package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	"github.com/jhoicas/dealerhub-api/internal/domain/repository"
)

const permissionsTTL = 10 * time.Minute

func permissionsKey(userID string) string { return "perms:" + userID }

// TeamUseCase personal del dealer y sus permisos.
type TeamUseCase struct {
	txRunner TeamTxRunner
	userRepo repository.UserRepository
	permRepo repository.PermissionRepository
	cache    ports.Cache
}

// NewTeamUseCase construye el caso de uso. cache puede ser ports.NopCache{}.
func NewTeamUseCase(txRunner TeamTxRunner, userRepo repository.UserRepository, permRepo repository.PermissionRepository, cache ports.Cache) *TeamUseCase {
	if cache == nil {
		cache = ports.NopCache{}
	}
	return &TeamUseCase{txRunner: txRunner, userRepo: userRepo, permRepo: permRepo, cache: cache}
}

// Catalogue permisos asignables.
func (uc *TeamUseCase) Catalogue(ctx context.Context) ([]dto.PermissionResponse, error) {
	list, err := uc.permRepo.Catalogue(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PermissionResponse{Code: p.Code, Name: p.Name, Group: p.Group})
	}
	return out, nil
}

// ListTeam miembros del dealer con sus códigos de permiso.
func (uc *TeamUseCase) ListTeam(ctx context.Context, dealerID string) ([]dto.TeamMemberResponse, error) {
	users, err := uc.userRepo.ListByDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	codes, err := uc.permRepo.CodesByDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeamMemberResponse, 0, len(users))
	for _, u := range users {
		perms := codes[u.ID]
		if u.Role == entity.RoleOwner {
			perms = allCodes
		}
		if perms == nil {
			perms = []string{}
		}
		out = append(out, dto.TeamMemberResponse{User: *auth.ToUserResponse(u), Permissions: perms})
	}
	return out, nil
}

// allCodes el owner tiene todos los permisos implícitamente.
var allCodes = []string{
	entity.PermCatalogView, entity.PermInventoryManage, entity.PermPOSSell, entity.PermPOSVoid,
	entity.PermJobCardsManage, entity.PermOrdersFulfill, entity.PermReportsView,
	entity.PermSettingsManage, entity.PermTeamManage,
}

// normalizeCodes valida contra el catálogo y devuelve los códigos ordenados sin duplicados.
func (uc *TeamUseCase) normalizeCodes(ctx context.Context, codes []string) ([]string, error) {
	catalogue, err := uc.permRepo.Catalogue(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(catalogue))
	for _, p := range catalogue {
		known[p.Code] = true
	}
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if !known[c] {
			return nil, domain.ErrInvalidInput
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Invite crea un usuario de personal del dealer con los permisos iniciales.
func (uc *TeamUseCase) Invite(ctx context.Context, dealerID string, in dto.InviteMemberRequest) (*dto.TeamMemberResponse, error) {
	if in.Role != entity.RoleManager && in.Role != entity.RoleCashier && in.Role != entity.RoleTechnician {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 8 || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	codes, err := uc.normalizeCodes(ctx, in.Permissions)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	member := &entity.User{
		ID:           uuid.New().String(),
		DealerID:     dealerID,
		Email:        auth.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.RunTeam(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		existing, err := userRepo.GetByEmail(ctx, member.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := userRepo.Create(ctx, member); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrEmailAlreadyExists
			}
			return err
		}
		if len(codes) == 0 {
			return nil
		}
		return permRepo.Grant(ctx, member.ID, codes)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("dealer_id", dealerID).Str("user_id", member.ID).Str("role", member.Role).Msg("miembro del equipo creado")
	return &dto.TeamMemberResponse{User: *auth.ToUserResponse(member), Permissions: codes}, nil
}

// member miembro editable del dealer: existe, es del mismo dealer y no es owner.
func (uc *TeamUseCase) member(ctx context.Context, dealerID, memberID string) (*entity.User, error) {
	u, err := uc.userRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.DealerID != dealerID {
		return nil, domain.ErrUserNotFound
	}
	if u.Role == entity.RoleOwner {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// SetPermissions sincroniza la lista de permisos del miembro: otorga los nuevos y revoca los
// ausentes en una sola transacción.
func (uc *TeamUseCase) SetPermissions(ctx context.Context, dealerID, memberID string, in dto.SetPermissionsRequest) (*dto.SetPermissionsResponse, error) {
	desired, err := uc.normalizeCodes(ctx, in.Codes)
	if err != nil {
		return nil, err
	}
	u, err := uc.member(ctx, dealerID, memberID)
	if err != nil {
		return nil, err
	}
	var added, removed []string
	err = uc.txRunner.RunTeam(ctx, func(_ repository.UserRepository, permRepo repository.PermissionRepository) error {
		current, err := permRepo.CodesOf(ctx, u.ID)
		if err != nil {
			return err
		}
		added, removed = entity.DiffCodes(current, desired)
		if len(added) > 0 {
			if err := permRepo.Grant(ctx, u.ID, added); err != nil {
				return err
			}
		}
		if len(removed) > 0 {
			if err := permRepo.Revoke(ctx, u.ID, removed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, u.ID)
	log.Info().Str("user_id", u.ID).Strs("added", added).Strs("removed", removed).Msg("permisos sincronizados")
	if added == nil {
		added = []string{}
	}
	if removed == nil {
		removed = []string{}
	}
	return &dto.SetPermissionsResponse{Added: added, Removed: removed, Current: desired}, nil
}

// RemoveMember elimina a un miembro del personal (nunca al owner).
func (uc *TeamUseCase) RemoveMember(ctx context.Context, dealerID, actorID, memberID string) error {
	if actorID == memberID {
		return domain.ErrForbidden
	}
	u, err := uc.member(ctx, dealerID, memberID)
	if err != nil {
		return err
	}
	err = uc.txRunner.RunTeam(ctx, func(userRepo repository.UserRepository, permRepo repository.PermissionRepository) error {
		if err := permRepo.RevokeAll(ctx, u.ID); err != nil {
			return err
		}
		return userRepo.Delete(ctx, u.ID)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, u.ID)
	return nil
}

// HasPermission superadmin y owner tienen todos los permisos; el resto se consulta (caché 10 min).
func (uc *TeamUseCase) HasPermission(ctx context.Context, userID, role, code string) (bool, error) {
	switch role {
	case entity.RoleSuperAdmin, entity.RoleOwner:
		return true, nil
	}
	if !entity.IsStaffRole(role) {
		return false, nil
	}
	codes, err := uc.codesOf(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

func (uc *TeamUseCase) codesOf(ctx context.Context, userID string) ([]string, error) {
	key := permissionsKey(userID)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		var codes []string
		if json.Unmarshal(raw, &codes) == nil {
			return codes, nil
		}
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("caché no disponible")
	}
	codes, err := uc.permRepo.CodesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(codes); err == nil {
		if err := uc.cache.Set(ctx, key, raw, permissionsTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudieron cachear permisos")
		}
	}
	return codes, nil
}

func (uc *TeamUseCase) invalidate(ctx context.Context, userID string) {
	if err := uc.cache.Delete(ctx, permissionsKey(userID), auth.SessionKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo invalidar permisos en caché")
	}
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/usecase"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
)

func TestUserRegistry_NoActuaSobreSiMismo(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@plataforma.co", "")
	uc := usecase.NewUserUseCase(s.Users(), nil)

	_, err := uc.UpdateRole(ctx, admin.ID, admin.ID, entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.SetStatus(ctx, admin.ID, admin.ID, entity.UserStatusSuspended)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, admin.ID, admin.ID), domain.ErrForbidden)
}

func TestUserRegistry_RolDePersonalExigeDealer(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	cache := apptest.NewCache()
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@plataforma.co", "")
	customer := s.SeedUser("", entity.RoleCustomer, "c@mail.co", "")
	d := s.SeedDealer("d", entity.DealerStatusActive, apptest.Dec("0"))
	cashier := s.SeedUser(d.ID, entity.RoleCashier, "caja@d.co", "")
	uc := usecase.NewUserUseCase(s.Users(), cache)

	_, err := uc.UpdateRole(ctx, admin.ID, customer.ID, entity.RoleManager)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cliente sin dealer no puede ser personal")
	_, err = uc.UpdateRole(ctx, admin.ID, cashier.ID, entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, cache.Set(ctx, "perms:"+cashier.ID, []byte(`["pos.sell"]`), 0))
	out, err := uc.UpdateRole(ctx, admin.ID, cashier.ID, entity.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, out.Role)
	assert.False(t, cache.Has("perms:"+cashier.ID), "cambiar el rol invalida los permisos en caché")
}

func TestUserRegistry_ListYEstado(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	admin := s.SeedUser("", entity.RoleSuperAdmin, "root@plataforma.co", "")
	c1 := s.SeedUser("", entity.RoleCustomer, "ana@mail.co", "")
	s.SeedUser("", entity.RoleCustomer, "luis@mail.co", "")
	uc := usecase.NewUserUseCase(s.Users(), nil)

	out, err := uc.SetStatus(ctx, admin.ID, c1.ID, entity.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, out.Status)
	_, err = uc.SetStatus(ctx, admin.ID, c1.ID, "bloqueado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, dto.UserListRequest{Role: entity.RoleCustomer, Status: entity.UserStatusActive})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "luis@mail.co", list.Items[0].Email)

	list, err = uc.List(ctx, dto.UserListRequest{Search: "ana"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	require.NoError(t, uc.Delete(ctx, admin.ID, c1.ID))
	_, err = uc.SetStatus(ctx, admin.ID, c1.ID, entity.UserStatusActive)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

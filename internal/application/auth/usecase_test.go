package auth_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/apptest"
	"github.com/jhoicas/dealerhub-api/internal/application/auth"
	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/domain"
	"github.com/jhoicas/dealerhub-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/dealerhub-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "dealerhub-test"}

func newAuth(s *apptest.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(s.Users(), s.Dealers(), nil, jwtCfg)
}

func TestRegisterCustomer_YLogin(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	uc := newAuth(s)

	u, err := uc.RegisterCustomer(ctx, dto.RegisterRequest{Email: "  Ana@Mail.COM ", Password: "secreta123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.com", u.Email, "el email se normaliza")
	assert.Equal(t, entity.RoleCustomer, u.Role)

	_, err = uc.RegisterCustomer(ctx, dto.RegisterRequest{Email: "ana@mail.com", Password: "otra12345", Name: "Ana 2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@mail.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, 30*60, out.ExpiresIn)
	id, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, entity.RoleCustomer, id.Role)
	assert.Empty(t, id.DealerID)
}

func TestRegisterCustomer_PasswordCorta(t *testing.T) {
	_, err := newAuth(apptest.NewStore()).RegisterCustomer(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "123", Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	uc := newAuth(s)
	_, err := uc.RegisterCustomer(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "secreta123", Name: "A"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "email desconocido responde igual que password incorrecto")
}

func TestLogin_PersonalDeDealerNoActivo(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("pendiente", entity.DealerStatusPending, decimal.Zero)
	hash, err := auth.HashPassword("secreta123")
	require.NoError(t, err)
	s.SeedUser(d.ID, entity.RoleOwner, "owner@d.co", hash)
	uc := newAuth(s)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "owner@d.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, s.Dealers().UpdateStatus(ctx, d.ID, entity.DealerStatusActive))
	out, err := uc.Login(ctx, dto.LoginRequest{Email: "owner@d.co", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, d.ID, out.User.DealerID)
}

func TestLogin_UsuarioSuspendido(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	hash, err := auth.HashPassword("secreta123")
	require.NoError(t, err)
	u := s.SeedUser("", entity.RoleCustomer, "c@b.co", hash)
	u.Status = entity.UserStatusSuspended
	require.NoError(t, s.Users().Update(ctx, u))

	_, err = newAuth(s).Login(ctx, dto.LoginRequest{Email: "c@b.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	s := apptest.NewStore()
	u := s.SeedUser("", entity.RoleCustomer, "c@b.co", "")
	got, err := newAuth(s).Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "c@b.co", got.Email)

	_, err = newAuth(s).Me(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSession_ReflejaRolYEstadoVigentes(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("motos", entity.DealerStatusActive, decimal.Zero)
	u := s.SeedUser(d.ID, entity.RoleManager, "m@d.co", "")
	uc := newAuth(s)

	got, err := uc.Session(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, got.Role)
	assert.Equal(t, d.ID, got.DealerID)

	u.Role = entity.RoleCashier
	require.NoError(t, s.Users().Update(ctx, u))
	got, err = uc.Session(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, got.Role, "el rol sale de la BD, no del token")

	u.Status = entity.UserStatusSuspended
	require.NoError(t, s.Users().Update(ctx, u))
	_, err = uc.Session(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSession_DealerSuspendidoYUsuarioEliminado(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	d := s.SeedDealer("motos", entity.DealerStatusActive, decimal.Zero)
	owner := s.SeedUser(d.ID, entity.RoleOwner, "o@d.co", "")
	uc := newAuth(s)

	require.NoError(t, s.Dealers().UpdateStatus(ctx, d.ID, entity.DealerStatusSuspended))
	_, err := uc.Session(ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, s.Users().Delete(ctx, owner.ID))
	_, err = uc.Session(ctx, owner.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSession_UsaLaCache(t *testing.T) {
	ctx := context.Background()
	s := apptest.NewStore()
	cache := apptest.NewCache()
	u := s.SeedUser("", entity.RoleCustomer, "c@b.co", "")
	uc := auth.NewAuthUseCase(s.Users(), s.Dealers(), cache, jwtCfg)

	_, err := uc.Session(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, cache.Has(auth.SessionKey(u.ID)))

	// sin invalidar, la caché manda; la invalidación la hacen los casos de uso que mutan al usuario
	u.Status = entity.UserStatusSuspended
	require.NoError(t, s.Users().Update(ctx, u))
	_, err = uc.Session(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, auth.SessionKey(u.ID)))
	_, err = uc.Session(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

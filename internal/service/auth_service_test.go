package service

import (
	"context"
	"testing"

	"almapos/internal/config"
	"almapos/internal/dto"
	"almapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*fakeUsuarioRepo, AuthService) {
	t.Helper()
	repo := newFakeUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return repo, NewAuthService(repo, cfg)
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, username, password, rol string, activo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		Username:     username,
		Nombre:       "Usuario de Prueba",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       activo,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUsuario(t, repo, "cajero1", "secreto123", "cajero", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "cajero1", resp.User.Username)
	assert.Equal(t, "cajero", resp.User.Rol)
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUsuario(t, repo, "cajero1", "secreto123", "cajero", true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "otra"})
	require.Error(t, err)
}

func TestLoginUsuarioInactivo(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUsuario(t, repo, "exempleado", "secreto123", "cajero", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "exempleado", Password: "secreto123"})
	require.Error(t, err)
}

func TestRefresh(t *testing.T) {
	repo, svc := newAuthFixture(t)
	seedUsuario(t, repo, "super1", "secreto123", "supervisor", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "super1", Password: "secreto123"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "super1", renovado.User.Username)

	_, err = svc.Refresh(ctx, "no-es-un-token")
	require.Error(t, err)
}

func TestCrearYDesactivarUsuario(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	creado, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "nuevo",
		Nombre:   "Nuevo Empleado",
		Password: "secreto123",
		Rol:      "cajero",
	})
	require.NoError(t, err)
	assert.True(t, creado.Activo)

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "nuevo", Password: "secreto123"})
	require.NoError(t, err)
	require.NotNil(t, login)

	uid := uuid.MustParse(creado.ID)
	require.NoError(t, svc.DesactivarUsuario(ctx, uid))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nuevo", Password: "secreto123"})
	require.Error(t, err)

	require.NoError(t, svc.ReactivarUsuario(ctx, uid))
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nuevo", Password: "secreto123"})
	require.NoError(t, err)
}

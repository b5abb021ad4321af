package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fondapos/internal/config"
	"fondapos/internal/dto"
	"fondapos/internal/middleware"
	"fondapos/internal/model"
	"fondapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc() (service.AuthService, *stubUsuarioRepo) {
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUsuario(repo *stubUsuarioRepo, email, password, rol string, activo bool) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		ID:           uuid.New(),
		Email:        email,
		Nombre:       "Usuario de prueba",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       activo,
	}
	repo.usuarios[u.ID] = u
	return u
}

func TestLoginExitoso(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "mesero@fonda.mx", "secreta123", "mesero", true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "mesero@fonda.mx", Password: "secreta123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "mesero", resp.User.Rol)
}

func TestLoginCredencialesInvalidasIndistinguibles(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "cajero@fonda.mx", "secreta123", "cajero", true)

	// Unknown email and wrong password must produce the same message.
	_, errEmail := svc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@fonda.mx", Password: "secreta123",
	})
	_, errPassword := svc.Login(context.Background(), dto.LoginRequest{
		Email: "cajero@fonda.mx", Password: "incorrecta",
	})
	require.Error(t, errEmail)
	require.Error(t, errPassword)
	assert.Equal(t, errEmail.Error(), errPassword.Error())
	assert.Equal(t, "credenciales inválidas", errEmail.Error())
}

func TestLoginUsuarioDesactivado(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "ex@fonda.mx", "secreta123", "mesero", false)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "ex@fonda.mx", Password: "secreta123",
	})
	require.Error(t, err)
	assert.Equal(t, "usuario desactivado", err.Error())
}

func TestRefreshConTokenDeAccesoFalla(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "super@fonda.mx", "secreta123", "supervisor", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "super@fonda.mx", Password: "secreta123",
	})
	require.NoError(t, err)

	// Access tokens are not valid refresh credentials.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	require.Error(t, err)

	resp, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestTokensDelServicioPasanElMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "guardia@fonda.mx", "secreta123", "mesero", true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "guardia@fonda.mx", Password: "secreta123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protegido", middleware.JWTAuth("secreto-de-prueba"), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetClaims(c).Rol)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mesero", w.Body.String())

	// Refresh tokens never pass the access-token gate.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+login.RefreshToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegistrarCorreoDuplicado(t *testing.T) {
	svc, repo := buildAuthSvc()
	seedUsuario(repo, "admin@fonda.mx", "secreta123", "administrador", true)

	_, err := svc.Registrar(context.Background(), dto.RegistroRequest{
		Email:    "admin@fonda.mx",
		Nombre:   "Otro Admin",
		Password: "otraclave123",
		Rol:      "administrador",
	})
	require.Error(t, err)
	assert.Equal(t, "el correo ya está registrado", err.Error())
}

func TestRegistrarNormalizaEmail(t *testing.T) {
	svc, _ := buildAuthSvc()

	resp, err := svc.Registrar(context.Background(), dto.RegistroRequest{
		Email:    "  Nuevo@Fonda.MX ",
		Nombre:   "Nuevo Mesero",
		Password: "clave12345",
		Rol:      "mesero",
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@fonda.mx", resp.Email)
	assert.True(t, resp.Activo)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	svc, repo := buildAuthSvc()
	u := seedUsuario(repo, "rotar@fonda.mx", "secreta123", "cajero", true)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))
	assert.False(t, repo.usuarios[u.ID].Activo)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), u.ID))
	assert.True(t, repo.usuarios[u.ID].Activo)

	err := svc.DesactivarUsuario(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "usuario no encontrado", err.Error())
}

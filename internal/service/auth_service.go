package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fondapos/internal/config"
	"fondapos/internal/dto"
	"fondapos/internal/middleware"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error)
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

const bcryptCost = 12

// ── Login ─────────────────────────────────────────────────────────────────────
// Credential failures share one message so the response never reveals whether
// the email exists.

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, errors.New("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciales inválidas")
	}
	if !usuario.Activo {
		return nil, errors.New("usuario desactivado")
	}
	return s.emitirTokens(usuario)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.TokenType != "refresh" {
		return nil, errors.New("refresh token inválido")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.New("refresh token inválido")
	}
	usuario, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.New("refresh token inválido")
	}
	if !usuario.Activo {
		return nil, errors.New("usuario desactivado")
	}
	return s.emitirTokens(usuario)
}

// ── Registro y administración de usuarios ────────────────────────────────────

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, errors.New("el correo ya está registrado")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("la contraseña debe tener al menos 8 caracteres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	usuario := &model.Usuario{
		Email:        email,
		Nombre:       strings.TrimSpace(req.Nombre),
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, err
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	var (
		usuarios []model.Usuario
		err      error
	)
	if incluirInactivos {
		usuarios, err = s.repo.ListAll(ctx)
	} else {
		usuarios, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		resp = append(resp, *usuarioToResponse(&usuarios[i]))
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if req.Nombre == "" && req.Rol == "" && req.Password == "" {
		return nil, errors.New("no se proporcionaron cambios")
	}

	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("usuario no encontrado")
	}

	if req.Nombre != "" {
		usuario.Nombre = strings.TrimSpace(req.Nombre)
	}
	if req.Rol != "" {
		usuario.Rol = req.Rol
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		usuario.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, err
	}
	return usuarioToResponse(usuario), nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("usuario no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("usuario no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

// ── Tokens ────────────────────────────────────────────────────────────────────
// Los tokens se firman con el mismo middleware.JWTClaims que luego los valida,
// así los dos lados no pueden divergir.

func (s *authService) emitirTokens(u *model.Usuario) (*dto.LoginResponse, error) {
	expiracion := time.Duration(s.cfg.JWTExpirationHours) * time.Hour

	access, err := s.firmarToken(u, "access", expiracion)
	if err != nil {
		return nil, err
	}
	refresh, err := s.firmarToken(u, "refresh", time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(expiracion.Seconds()),
		User:         *usuarioToResponse(u),
	}, nil
}

func (s *authService) firmarToken(u *model.Usuario, tipo string, vigencia time.Duration) (string, error) {
	ahora := time.Now()
	claims := middleware.JWTClaims{
		Rol:       u.Rol,
		Email:     u.Email,
		TokenType: tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(ahora.Add(vigencia)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Nombre: u.Nombre,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/internal/repository"
	"github.com/ferrosero91/asistencia/pkg/jwt"
	"github.com/ferrosero91/asistencia/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("Credenciales inválidas")
	ErrEmailExists        = errors.New("El usuario ya existe")
	ErrCuentaInactiva     = errors.New("La cuenta está desactivada")
	ErrRefreshInvalid     = errors.New("Refresh token inválido o revocado")
)

// AuthService handles sessions: registration, login and the token
// lifecycle. Sessions are server-issued JWTs; revocation goes through
// the Redis blacklist.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService creates the AuthService. rdb may be nil; logout then
// degrades to client-side token disposal.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		s.logger.Error("error al hashear la contraseña", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Nombre:        req.Nombre,
		Apellido:      req.Apellido,
		Email:         req.Email,
		Telefono:      req.Telefono,
		Departamento:  req.Departamento,
		PasswordHash:  string(hash),
		Role:          model.RoleProfesor,
		Activo:        true,
		FechaRegistro: time.Now(),
	}

	// The UNIQUE(email) constraint decides the conflict; no prior
	// existence check.
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("error al crear el usuario", zap.Error(err))
		return nil, err
	}

	return &dto.RegisterResponse{
		User:    toUserResponse(user),
		Message: "Usuario creado exitosamente",
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("error al consultar el usuario", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Activo {
		return nil, ErrCuentaInactiva
	}

	return s.tokenPair(user, "Login exitoso")
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("error al consultar la lista negra de tokens", zap.Error(err))
		} else if revoked {
			return nil, ErrRefreshInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !user.Activo {
		return nil, ErrCuentaInactiva
	}

	// Rotate: the used refresh token is revoked for its remaining life.
	if s.rdb != nil {
		_ = s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	}

	return s.tokenPair(user, "Sesión renovada")
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) tokenPair(user *model.User, message string) (*dto.LoginResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("error al generar el access token", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("error al generar el refresh token", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		User:         toUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Message:      message,
	}, nil
}

func (s *authService) bcryptCost() int {
	if s.cfg.Auth.BcryptCost > 0 {
		return s.cfg.Auth.BcryptCost
	}
	return bcrypt.DefaultCost
}

// toUserResponse strips the credential hash from an account.
func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Email:         u.Email,
		Telefono:      u.Telefono,
		Departamento:  u.Departamento,
		Role:          u.Role,
		Activo:        u.Activo,
		FechaRegistro: u.FechaRegistro,
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/dto"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/pkg/jwt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "secreto-de-prueba-suficientemente-largo",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			BcryptCost:      4, // rápido para las pruebas
		},
	}
}

func setupTestAuthService() (AuthService, *jwt.Manager, *mockUserRepo) {
	cfg := testAuthConfig()
	repo, users, _, _, _ := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, jwtMgr, users
}

func registroDePrueba() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Nombre:   "Ana",
		Apellido: "Gómez",
		Email:    "ana@aunar.edu.co",
		Password: "secreta1",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, users := setupTestAuthService()

	result, err := svc.Register(context.Background(), registroDePrueba())
	if err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}
	if result.User.Email != "ana@aunar.edu.co" {
		t.Errorf("email inesperado: %s", result.User.Email)
	}
	if result.User.Role != model.RoleProfesor {
		t.Errorf("el rol debería ser PROFESOR, se obtuvo %s", result.User.Role)
	}
	if !result.User.Activo {
		t.Error("la cuenta nueva debería estar activa")
	}

	guardado, err := users.GetByEmail(context.Background(), "ana@aunar.edu.co")
	if err != nil {
		t.Fatalf("el usuario debería existir: %v", err)
	}
	if guardado.PasswordHash == "secreta1" {
		t.Error("la contraseña debería almacenarse hasheada")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("secreta1")); err != nil {
		t.Errorf("el hash no corresponde a la contraseña: %v", err)
	}
}

func TestAuthService_Register_EmailDuplicado(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("el primer registro debería funcionar: %v", err)
	}
	_, err := svc.Register(context.Background(), registroDePrueba())
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("se esperaba ErrEmailExists, se obtuvo: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, jwtMgr, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@aunar.edu.co", Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("Login debería funcionar: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("el login debería entregar ambos tokens")
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in inesperado: %d", result.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("el access token debería ser válido: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("tipo de token inesperado: %s", claims.TokenType)
	}
	if claims.Role != model.RoleProfesor {
		t.Errorf("rol inesperado en el token: %s", claims.Role)
	}
}

func TestAuthService_Login_CredencialesInvalidas(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@aunar.edu.co", Password: "equivocada",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("se esperaba ErrInvalidCredentials, se obtuvo: %v", err)
	}

	// Un email desconocido produce el mismo error, sin revelar si la
	// cuenta existe.
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nadie@aunar.edu.co", Password: "secreta1",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("se esperaba ErrInvalidCredentials, se obtuvo: %v", err)
	}
}

func TestAuthService_Login_CuentaInactiva(t *testing.T) {
	svc, _, users := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}
	user, err := users.GetByEmail(context.Background(), "ana@aunar.edu.co")
	if err != nil {
		t.Fatalf("el usuario debería existir: %v", err)
	}
	user.Activo = false

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@aunar.edu.co", Password: "secreta1",
	})
	if !errors.Is(err, ErrCuentaInactiva) {
		t.Errorf("se esperaba ErrCuentaInactiva, se obtuvo: %v", err)
	}
}

func TestAuthService_Refresh_RotaElPar(t *testing.T) {
	svc, jwtMgr, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}
	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@aunar.edu.co", Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("Login debería funcionar: %v", err)
	}

	result, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh debería funcionar: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("el refresh debería entregar un par nuevo")
	}

	claims, err := jwtMgr.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("el access token nuevo debería ser válido: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("tipo de token inesperado: %s", claims.TokenType)
	}
}

func TestAuthService_Refresh_RechazaAccessToken(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), registroDePrueba()); err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}
	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@aunar.edu.co", Password: "secreta1",
	})
	if err != nil {
		t.Fatalf("Login debería funcionar: %v", err)
	}

	// Un access token no sirve como refresh token.
	_, err = svc.Refresh(context.Background(), login.AccessToken)
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("se esperaba ErrRefreshInvalid, se obtuvo: %v", err)
	}

	_, err = svc.Refresh(context.Background(), "no-es-un-token")
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("se esperaba ErrRefreshInvalid, se obtuvo: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	registro, err := svc.Register(context.Background(), registroDePrueba())
	if err != nil {
		t.Fatalf("Register debería funcionar: %v", err)
	}

	result, err := svc.Me(context.Background(), registro.User.ID)
	if err != nil {
		t.Fatalf("Me debería funcionar: %v", err)
	}
	if result.Email != "ana@aunar.edu.co" || result.Nombre != "Ana" {
		t.Errorf("perfil inesperado: %+v", result)
	}

	_, err = svc.Me(context.Background(), "no-existe")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("se esperaba ErrUserNotFound, se obtuvo: %v", err)
	}
}

func TestAuthService_Logout_SinRedisNoFalla(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if err := svc.Logout(context.Background(), "jti-123", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Logout sin Redis debería degradar sin error: %v", err)
	}
}

package dto

import "time"

// ── Auth requests ──

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the professor self-registration form.
type RegisterRequest struct {
	Nombre       string  `json:"nombre"       binding:"required,max=100"`
	Apellido     string  `json:"apellido"     binding:"required,max=100"`
	Email        string  `json:"email"        binding:"required,email"`
	Telefono     *string `json:"telefono"     binding:"omitempty,max=30"`
	Departamento *string `json:"departamento" binding:"omitempty,max=100"`
	Password     string  `json:"password"     binding:"required,min=6"`
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ── Auth responses ──

// UserResponse is an account without its credential hash.
type UserResponse struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Email         string    `json:"email"`
	Telefono      *string   `json:"telefono,omitempty"`
	Departamento  *string   `json:"departamento,omitempty"`
	Role          string    `json:"role"`
	Activo        bool      `json:"activo"`
	FechaRegistro time.Time `json:"fechaRegistro"`
}

// LoginResponse carries the session token pair and the user.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // access token lifetime in seconds
	Message      string       `json:"message"`
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

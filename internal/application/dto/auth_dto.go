package dto

import "time"

// RegisterRequest cadastro de empresa + usuário administrador.
// Dispara também a criação da assinatura trial.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	CpfCnpj     string `json:"cpf_cnpj"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	AdminName   string `json:"admin_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

// LoginRequest credenciais de acesso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse token emitido após registro ou login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse usuário sem campos sensíveis.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest criação de usuário adicional pela empresa.
// Sujeita ao limite de usuários do plano.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin gerente vendedor"`
}

// UpdateUserRequest edição parcial de usuário.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// CompanyResponse empresa exposta nas rotas autenticadas.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CpfCnpj   string    `json:"cpf_cnpj,omitempty"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateCompanyRequest edição parcial da empresa.
type UpdateCompanyRequest struct {
	Name    *string `json:"name"`
	CpfCnpj *string `json:"cpf_cnpj"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

package entity

import "time"

// Company representa uma organização/tenant do sistema (multi-tenant, foco Brasil).
type Company struct {
	ID        string
	Name      string
	CpfCnpj   string // CPF ou CNPJ; obrigatório para operações pagas no gateway
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o e-mail já está cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrConflict           = errors.New("conflito com o estado atual")

	// Assinaturas / cobrança
	ErrSubscriptionExists   = errors.New("a empresa já possui uma assinatura ativa")
	ErrSubscriptionNotFound = errors.New("assinatura não encontrada")
	ErrPlanNotFound         = errors.New("plano não encontrado")
	ErrMissingCpfCnpj       = errors.New("empresa sem CPF/CNPJ cadastrado nas configurações")

	// Workflow de exclusão de vendas
	ErrExclusionPending    = errors.New("já existe uma solicitação de exclusão pendente para esta venda")
	ErrExclusionNotPending = errors.New("a venda não possui solicitação de exclusão pendente")
	ErrMissingReviewNotes  = errors.New("o motivo da rejeição é obrigatório")

	// Caixa
	ErrCaixaAlreadyOpen = errors.New("já existe um caixa aberto para esta empresa")
	ErrCaixaNotOpen     = errors.New("não há caixa aberto para esta empresa")
)

// BadRequestError erro de precondição de negócio com mensagem legível para o cliente.
// Mapeado para HTTP 400 na camada de interface.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

// NewBadRequest cria um erro de precondição com a mensagem dada.
func NewBadRequest(msg string) error { return &BadRequestError{Message: msg} }

// IsBadRequest informa se err carrega um BadRequestError na cadeia.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}

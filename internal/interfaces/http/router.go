package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caixapro/pdv-api/internal/application/auth"
	"github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/application/usecase"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	PlanUC       *usecase.PlanUseCase
	ProductUC    *usecase.ProductUseCase
	VendaUC      *usecase.VendaUseCase
	CaixaUC      *usecase.CaixaUseCase
	DespesaUC    *usecase.DespesaUseCase
	UserUC       *usecase.UserUseCase
	CompanyUC    *usecase.CompanyUseCase
	FeatureGate  *subscription.FeatureGate
	Orchestrator *subscription.Orchestrator
	Ingestor     *subscription.Ingestor
	WebhookToken string
	JWTSecret    string
	Log          *logger.Logger
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhooks do gateway (fora de /api; o Asaas chama direto)
	webhookHandler := NewWebhookHandler(deps.Ingestor, deps.WebhookToken, deps.Log)
	app.Get("/asaas-webhooks", webhookHandler.Liveness)
	app.Post("/asaas-webhooks", webhookHandler.Receive)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo de planos (público)
	planHandler := NewPlanHandler(deps.PlanUC)
	api.Get("/plans", planHandler.List)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Edição administrativa de planos
	protected.Put("/plans/:id", RequireRole("admin"), planHandler.UpdateAdmin)

	// Assinaturas
	subs := protected.Group("/subscriptions")
	subHandler := NewSubscriptionHandler(deps.FeatureGate, deps.Orchestrator)
	subs.Get("/features/:companyId", RequireOwnCompany, subHandler.Features)
	subs.Get("/:companyId", RequireOwnCompany, subHandler.Info)
	subs.Put("/:companyId/change-plan", RequireOwnCompany, subHandler.ChangePlan)
	subs.Put("/:id/change-plan-admin", RequireRole("admin"), subHandler.ChangePlanAdmin)
	subs.Delete("/:id", RequireRole("admin"), subHandler.Cancel)
	subs.Post("/:companyId/payments", RequireOwnCompany, subHandler.CreatePayment)
	subs.Get("/:companyId/payments", RequireOwnCompany, subHandler.ListPayments)

	// Empresa do token
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/me", companyHandler.Get)
	companies.Put("/me", RequireRole("admin"), companyHandler.Update)

	// Produtos
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireFeature(subscription.FeatureCreateProducts, deps.FeatureGate), productHandler.Create)
	products.Get("/", productHandler.Search)
	products.Post("/categories/rename", RequireFeature(subscription.FeatureCreateProducts, deps.FeatureGate), productHandler.RenameCategory)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireFeature(subscription.FeatureCreateProducts, deps.FeatureGate), productHandler.Update)
	products.Delete("/:id", RequireFeature(subscription.FeatureCreateProducts, deps.FeatureGate), productHandler.Delete)

	// Vendas + workflow de exclusão
	vendas := protected.Group("/vendas")
	vendaHandler := NewVendaHandler(deps.VendaUC)
	vendas.Post("/", RequireFeature(subscription.FeatureCheckout, deps.FeatureGate), vendaHandler.Create)
	vendas.Get("/", RequireFeature(subscription.FeatureSales, deps.FeatureGate), vendaHandler.List)
	vendas.Get("/exclusions/pending", RequireRole("admin", "gerente"), vendaHandler.ListPendingExclusions)
	vendas.Get("/:id", RequireFeature(subscription.FeatureSales, deps.FeatureGate), vendaHandler.GetByID)
	vendas.Post("/:id/exclusion", RequireFeature(subscription.FeatureExclusionFlow, deps.FeatureGate), vendaHandler.RequestExclusion)
	vendas.Put("/:id/exclusion/approve", RequireRole("admin", "gerente"), vendaHandler.ApproveExclusion)
	vendas.Put("/:id/exclusion/reject", RequireRole("admin", "gerente"), vendaHandler.RejectExclusion)

	// Caixa
	caixas := protected.Group("/caixas")
	caixaHandler := NewCaixaHandler(deps.CaixaUC)
	caixas.Post("/", RequireFeature(subscription.FeatureCheckout, deps.FeatureGate), caixaHandler.Open)
	caixas.Put("/close", RequireFeature(subscription.FeatureCheckout, deps.FeatureGate), caixaHandler.Close)
	caixas.Get("/current", caixaHandler.Current)
	caixas.Get("/", caixaHandler.List)
	caixas.Get("/:id/report", RequireFeature(subscription.FeatureReports, deps.FeatureGate), caixaHandler.ClosingReport)

	// Despesas
	despesas := protected.Group("/despesas", RequireFeature(subscription.FeatureExpenses, deps.FeatureGate))
	despesaHandler := NewDespesaHandler(deps.DespesaUC)
	despesas.Post("/", despesaHandler.Create)
	despesas.Get("/", despesaHandler.List)
	despesas.Get("/summary", despesaHandler.Summary)
	despesas.Put("/:id", despesaHandler.Update)
	despesas.Delete("/:id", despesaHandler.Delete)

	// Usuários (gestão restrita a admin/gerente)
	users := protected.Group("/users", RequireRole("admin", "gerente"))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}

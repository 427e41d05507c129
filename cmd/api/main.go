package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/caixapro/pdv-api/internal/application/auth"
	appsub "github.com/caixapro/pdv-api/internal/application/subscription"
	"github.com/caixapro/pdv-api/internal/application/usecase"
	"github.com/caixapro/pdv-api/internal/infrastructure/asaas"
	infrapdf "github.com/caixapro/pdv-api/internal/infrastructure/pdf"
	"github.com/caixapro/pdv-api/internal/infrastructure/postgres"
	httpRouter "github.com/caixapro/pdv-api/internal/interfaces/http"
	"github.com/caixapro/pdv-api/pkg/config"
	"github.com/caixapro/pdv-api/pkg/logger"
)

// trialSweepInterval frequência do rebaixamento de trials vencidos.
const trialSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com o PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	historyRepo := postgres.NewPaymentHistoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	vendaRepo := postgres.NewVendaRepository(pool)
	caixaRepo := postgres.NewCaixaRepository(pool)
	despesaRepo := postgres.NewDespesaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	gateway := asaas.NewClient(cfg.Asaas, log)

	gate := appsub.NewFeatureGate(subRepo, planRepo, userRepo)
	orchestrator := appsub.NewOrchestrator(subRepo, planRepo, companyRepo, historyRepo, gateway, log)
	ingestor := appsub.NewIngestor(subRepo, historyRepo, log)

	planUC := usecase.NewPlanUseCase(planRepo)
	if err := planUC.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed do catálogo de planos")
	}

	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	vendaUC := usecase.NewVendaUseCase(vendaRepo, caixaRepo, productRepo)
	caixaUC := usecase.NewCaixaUseCase(caixaRepo, vendaRepo, companyRepo, infrapdf.NewMarotoReportGenerator())
	despesaUC := usecase.NewDespesaUseCase(despesaRepo)
	userUC := usecase.NewUserUseCase(userRepo, gate)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	authUC := auth.NewUseCase(userRepo, companyRepo, orchestrator, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Caixa Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		PlanUC:       planUC,
		ProductUC:    productUC,
		VendaUC:      vendaUC,
		CaixaUC:      caixaUC,
		DespesaUC:    despesaUC,
		UserUC:       userUC,
		CompanyUC:    companyUC,
		FeatureGate:  gate,
		Orchestrator: orchestrator,
		Ingestor:     ingestor,
		WebhookToken: cfg.Asaas.WebhookToken,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	// Sweep periódico: rebaixa trials vencidos para readonly.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(trialSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				demoted, err := orchestrator.CheckAndUpdateTrialStatus(sweepCtx)
				if err != nil {
					log.Error().Err(err).Msg("sweep de trials vencidos")
					continue
				}
				if demoted > 0 {
					log.Info().Int("demoted", demoted).Msg("trials vencidos rebaixados para readonly")
				}
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}

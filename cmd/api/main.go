package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/xm-shop/crm-api/internal/application/auth"
	"github.com/xm-shop/crm-api/internal/application/ledger"
	applookup "github.com/xm-shop/crm-api/internal/application/lookup"
	"github.com/xm-shop/crm-api/internal/domain"
	"github.com/xm-shop/crm-api/internal/domain/entity"
	"github.com/xm-shop/crm-api/internal/domain/repository"
	infraai "github.com/xm-shop/crm-api/internal/infrastructure/ai"
	"github.com/xm-shop/crm-api/internal/infrastructure/fallback"
	"github.com/xm-shop/crm-api/internal/infrastructure/localstore"
	infralookup "github.com/xm-shop/crm-api/internal/infrastructure/lookup"
	infrapdf "github.com/xm-shop/crm-api/internal/infrastructure/pdf"
	"github.com/xm-shop/crm-api/internal/infrastructure/postgres"
	httpRouter "github.com/xm-shop/crm-api/internal/interfaces/http"
	"github.com/xm-shop/crm-api/pkg/config"
	"github.com/xm-shop/crm-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	// The shop document lives in Postgres when it is reachable; otherwise
	// everything runs off the local JSON data file, matching how the client
	// falls back to its local copy when the backend is down. Auth stays
	// Postgres-only: in local mode login answers with an error.
	local := localstore.New(cfg.Local.DataFile)
	var documents repository.DocumentStore = local
	var rows repository.InvoiceRowStore = localstore.NoopRowStore{}
	var userRepo repository.UserRepository = unavailableUserRepo{}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Warn().Err(err).Str("data_file", cfg.Local.DataFile).
			Msg("postgres unavailable, running on the local data file")
	} else {
		defer pool.Close()
		documents = fallback.NewDocumentStore(postgres.NewDocumentRepository(pool), local, log.Zerolog())
		rows = postgres.NewInvoiceRowRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	ledgerSvc := ledger.New(documents, rows, log.Zerolog())

	nhtsa := infralookup.NewNHTSAClient(cfg.Lookup.NHTSABaseURL)
	carquery := infralookup.NewCarQueryClient(cfg.Lookup.CarQueryBaseURL)
	tavily := infralookup.NewTavilyClient(cfg.AI.TavilyAPIKey)
	anthropic := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	lookupUC := applookup.NewUseCase(nhtsa, carquery, tavily, anthropic, log.Zerolog())

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerSvc,
		LookupUC:  lookupUC,
		AuthUC:    authUC,
		PDF:       pdfGenerator,
		ShopName:  cfg.App.ShopName,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

// unavailableUserRepo answers auth calls when Postgres is down.
type unavailableUserRepo struct{}

func (unavailableUserRepo) Create(*entity.User) error { return domain.ErrBackendUnavailable }
func (unavailableUserRepo) FindByEmail(string) (*entity.User, error) {
	return nil, domain.ErrBackendUnavailable
}
func (unavailableUserRepo) GetByID(string) (*entity.User, error) {
	return nil, domain.ErrBackendUnavailable
}

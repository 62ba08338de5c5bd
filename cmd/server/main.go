package main

import (
	"ERecyclo/internal/adapters/eventbus"
	"ERecyclo/internal/adapters/notify"
	"ERecyclo/internal/adapters/postgres"
	"ERecyclo/internal/adapters/redis"
	"ERecyclo/internal/adapters/security"
	"ERecyclo/internal/adapters/telegram"
	"ERecyclo/internal/bot/moderator"
	_ "ERecyclo/internal/bot/moderator/handlers" // registers moderator handlers
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/core/services"
	"ERecyclo/internal/httpapi"
	"ERecyclo/internal/shared/config"
	"ERecyclo/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev(), cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Bool("moderator_bot", cfg.Moderator.Enabled()).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Security
	secSvc, err := security.NewAESServiceFromHex(cfg.EncryptionKey, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize field encryption")
	}
	hasher := security.NewBcryptHasher(0)
	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)

	// 4. Database
	db, err := postgres.NewDB(ctx, cfg.DatabaseURL, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// 5. Redis (OTP cache)
	rdb, err := redis.NewClient(ctx, cfg.Redis, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()

	// 6. Repositories
	userRepo := postgres.NewUserRepository(db, &baseLogger)
	vendorRepo := postgres.NewVendorRepository(db, secSvc, &baseLogger)
	collectorRepo := postgres.NewCollectorRepository(db, secSvc, &baseLogger)
	productRepo := postgres.NewProductRepository(db, &baseLogger)
	pickupRepo := postgres.NewPickupRepository(db, &baseLogger)
	flagRepo := postgres.NewFraudFlagRepository(db, &baseLogger)

	// 7. Services
	bus := eventbus.NewInMemoryBus(&baseLogger, 30*time.Second)
	rules := cfg.Business

	verificationSvc := services.NewVerificationService(db, vendorRepo, collectorRepo, bus, &baseLogger)
	scoringSvc := services.NewScoringService(db, vendorRepo, &baseLogger)
	fraudSvc := services.NewFraudService(db, flagRepo, vendorRepo, bus, rules, &baseLogger)
	assignmentSvc := services.NewAssignmentService(db, productRepo, pickupRepo, vendorRepo, collectorRepo, rules, &baseLogger)
	productSvc := services.NewProductService(db, productRepo, pickupRepo, vendorRepo, collectorRepo, fraudSvc, rules, &baseLogger)
	dashboardSvc := services.NewDashboardService(vendorRepo, collectorRepo, productRepo, pickupRepo, flagRepo, cfg.Site, &baseLogger)
	authSvc := services.NewAuthService(services.AuthDeps{
		Tx:         db,
		Users:      userRepo,
		Vendors:    vendorRepo,
		Collectors: collectorRepo,
		Hasher:     hasher,
		Tokens:     tokens,
		OTPs:       redis.NewOTPStore(rdb, &baseLogger),
		Notifier:   notify.NewLogNotifier(&baseLogger),
		Bus:        bus,
	}, cfg.Auth.OTPTTL, &baseLogger)

	baseLogger.Info().Msg("All services initialized successfully")

	g, gctx := errgroup.WithContext(ctx)

	// 8. HTTP API
	handler := httpapi.NewHandler(httpapi.Services{
		Auth:         authSvc,
		Products:     productSvc,
		Verification: verificationSvc,
		Scoring:      scoringSvc,
		Fraud:        fraudSvc,
		Assignment:   assignmentSvc,
		Dashboards:   dashboardSvc,
	}, &baseLogger)
	router := httpapi.NewRouter(handler, authSvc, cfg.HTTP.AllowedOrigins, &baseLogger)
	apiServer := httpapi.NewServer(cfg.HTTP.Addr, router, &baseLogger)
	g.Go(func() error { return apiServer.Start(gctx) })

	// 9. Moderator bot (optional)
	if cfg.Moderator.Enabled() {
		modServer, err := startModeratorBot(gctx, cfg, moderator.HandlerDeps{
			Cfg:          cfg,
			Users:        userRepo,
			Vendors:      vendorRepo,
			Collectors:   collectorRepo,
			Products:     productRepo,
			Verification: verificationSvc,
			Fraud:        fraudSvc,
			Bus:          bus,
		}, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to start moderator bot")
		}
		g.Go(func() error { return modServer.Start(gctx) })
	}

	baseLogger.Info().Msg("Application started")
	if err := g.Wait(); err != nil {
		baseLogger.Error().Err(err).Msg("Server stopped with error")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bus.Drain(drainCtx); err != nil {
		baseLogger.Warn().Err(err).Msg("Event handlers still running at shutdown")
	}
	baseLogger.Info().Msg("Shutdown complete")
}

// startModeratorBot connects to Telegram and wires the router and handlers
// onto the bus.
func startModeratorBot(ctx context.Context, cfg *config.Config, deps moderator.HandlerDeps, baseLogger *zerolog.Logger) (*moderator.ModeratorServer, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Moderator.Token)
	if err != nil {
		return nil, fmt.Errorf("connect moderator bot: %w", err)
	}
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Moderator bot authorized")

	var botClient ports.BotClientPort = telegram.NewClient(api, baseLogger)
	if err := botClient.SetMenuCommands(ctx); err != nil {
		baseLogger.Warn().Err(err).Msg("Failed to set moderator menu commands")
	}
	deps.Bot = botClient

	router := moderator.NewModeratorRouter(deps.Users, botClient, deps.Bus, baseLogger)
	moderator.RegisterAllHandlers(router, deps, baseLogger)

	return moderator.NewModeratorServer(api, &cfg.Moderator, deps.Bus, baseLogger), nil
}

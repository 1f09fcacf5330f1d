package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gayathriimasha/smart-campus-mis/internal/auth"
	"github.com/gayathriimasha/smart-campus-mis/internal/config"
	"github.com/gayathriimasha/smart-campus-mis/internal/database"
	"github.com/gayathriimasha/smart-campus-mis/internal/events"
	"github.com/gayathriimasha/smart-campus-mis/internal/handler"
	"github.com/gayathriimasha/smart-campus-mis/internal/middleware"
	"github.com/gayathriimasha/smart-campus-mis/internal/repository"
	"github.com/gayathriimasha/smart-campus-mis/internal/router"
	"github.com/gayathriimasha/smart-campus-mis/internal/service"
	"github.com/gayathriimasha/smart-campus-mis/internal/session"
	"github.com/gayathriimasha/smart-campus-mis/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	var probes []handler.Probe

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		probes = append(probes, handler.Probe{Name: "database", Check: func(ctx context.Context) error {
			return database.PingDB(ctx, db)
		}})
	}

	var userRepo repository.UserRepository
	var announcementRepo repository.AnnouncementRepository
	if db != nil {
		userRepo = repository.NewUserRepository(db)
		announcementRepo = repository.NewAnnouncementRepository(db)
	}

	var fetcher source.Fetcher
	switch cfg.ReportSource {
	case config.SourceRemote:
		fetcher = source.NewRemote(cfg.UpstreamURL, cfg.UpstreamTimeout, logger)
	default:
		if db == nil {
			log.Fatalf("database report source requires CAMPUS_DATABASE_URL")
		}
		fetcher = source.NewDatabase(userRepo, announcementRepo, auth.NewVerifier(cfg.JWTSecret), logger)
	}

	var sessions session.Store = session.NewMemoryStore(cfg.SessionTTL)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		probes = append(probes, handler.Probe{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	} else {
		logger.Warn().Msg("redis url not set, report sessions are kept in memory")
	}

	var publisher service.ExportPublisher
	if cfg.NATSURL != "" {
		natsPublisher, conn, err := events.Connect(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer drain(conn)
		publisher = natsPublisher
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	reportService := service.NewReportService(fetcher, sessions, publisher, service.ReportOptions{
		Title:      cfg.ReportTitle,
		DateLayout: cfg.DateLayout,
	}, logger)
	exportGuard := middleware.RateLimit("report_export", cfg.ExportRateLimit, cfg.ExportWindow)
	reportHandler := handler.NewReportHandler(reportService, validate, exportGuard, logger)

	var seedHandler *handler.SeedHandler
	if db != nil {
		seedService := service.NewSeedService(userRepo, announcementRepo, cfg.SeedEnabled, cfg.SeedToken, logger)
		seedHandler = handler.NewSeedHandler(seedService, logger)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		ReportHandler: reportHandler,
		SeedHandler:   seedHandler,
		HealthProbes:  probes,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func drain(conn *nats.Conn) {
	if err := conn.Drain(); err != nil {
		log.Printf("nats drain failed: %v", err)
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

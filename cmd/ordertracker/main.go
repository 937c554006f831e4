package main

import (
	"context"
	"crypto/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/auth"
	"github.com/amirhosseinghanipour/ordertracker/internal/application/commission"
	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
	"github.com/amirhosseinghanipour/ordertracker/internal/application/retention"
	"github.com/amirhosseinghanipour/ordertracker/internal/config"
	httprouter "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/lock"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/memory"
	mongostore "github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/mongo"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/session"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/uploads"
	"github.com/amirhosseinghanipour/ordertracker/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Secure.IsDevelopment {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		log = log.Level(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL; using info")
		log = log.Level(zerolog.InfoLevel)
	}

	ctx := context.Background()

	var repo ports.CommissionRepository
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := mongostore.Connect(ctx, cfg.Store.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to mongodb")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoRepo := mongostore.NewCommissionRepository(client, cfg.Store.MongoDatabase)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("create mongodb indexes")
		}
		repo = mongoRepo
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Store.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		pgRepo := postgres.NewCommissionRepository(pool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("create schema")
		}
		repo = pgRepo
	default:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		repo = memory.NewCommissionRepository()
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("commission store ready")

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	images, err := uploads.NewDiskStore(filepath.Join(cfg.Server.PublicDir, "uploads"), cfg.Uploads.MaxBytes, cfg.Uploads.AllowedTypes, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("open uploads directory")
	}

	var emitter ports.WebhookEmitter = webhook.Discard{}
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewEmitter(cfg.Webhook.URL,
			webhook.WithAuthHeader(cfg.Webhook.AuthHeader),
			webhook.WithEvents(cfg.Webhook.Events...),
		)
	}
	processor := queue.NewProcessor(images, emitter, log)

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, processor, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewInlineEnqueuer(processor)
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatal().Err(err).Msg("generate session secret")
		}
		log.Warn().Msg("SESSION_SECRET not set; sessions end on restart")
	}
	cookies := session.NewCookieSession(secret, !cfg.Secure.IsDevelopment)
	handlers.InitOAuthProviders(cfg.Discord.ClientID, cfg.Discord.ClientSecret, cfg.Discord.RedirectURI, cookies.Store())

	policy, err := commission.ParseImagePolicy(cfg.Uploads.RejectPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("UPLOAD_REJECT_POLICY")
	}
	locker := lock.NewMemoryLocker()
	listUC := commission.NewListCommissions(repo)
	adminHandler := handlers.NewAdminHandler(handlers.AdminUseCases{
		List:             listUC,
		CreateCommission: commission.NewCreateCommission(repo, nil, nil),
		EditCommission:   commission.NewEditCommission(repo, nil),
		DeleteCommission: commission.NewDeleteCommission(repo, taskEnqueuer),
		AddUpdate:        commission.NewAddUpdate(repo, images, taskEnqueuer, policy, nil, nil),
		ToggleUpdate:     commission.NewToggleUpdate(repo, locker, taskEnqueuer, nil),
		DeleteUpdate:     commission.NewDeleteUpdate(repo, locker, taskEnqueuer, nil),
	}, taskEnqueuer, cfg.Uploads.MaxBytes, log)
	dashboardHandler := handlers.NewDashboardHandler(listUC, cfg.Admins, cfg.Discord.ContactUserID, log)
	oauthHandler := handlers.NewOAuthHandler(auth.NewSignIn(cfg.Admins), cookies, taskEnqueuer, log)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	router := httprouter.NewRouter(httprouter.RouterConfig{
		DashboardHandler: dashboardHandler,
		AdminHandler:     adminHandler,
		OAuthHandler:     oauthHandler,
		HealthHandler:    handlers.NewHealthHandler(repo, redisClient),
		SessionLoader:    middleware.NewSessionLoader(cookies, log).Handler,
		RequireAdmin:     middleware.RequireAdmin(cfg.Admins),
		UploadsDir:       images.Dir(),
		Log:              log,
		Secure:           secureMiddleware,
		IPRateLimit:      ipLimit,
		Metrics:          true,
	})

	retentionCtx, stopRetention := context.WithCancel(ctx)
	defer stopRetention()
	if cfg.Retention.ImageMaxAge > 0 {
		go runRetention(retentionCtx, repo, images, cfg.Retention.ImageMaxAge, log)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Int("admins", cfg.Admins.Len()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	stopRetention()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}

// runRetention prunes unreferenced uploads once an hour.
func runRetention(ctx context.Context, repo ports.CommissionRepository, images ports.ImageStore, maxAge time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := retention.RunPruneOrphanedImages(ctx, repo, images, maxAge, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("prune orphaned images")
		} else if n > 0 {
			log.Info().Int("removed", n).Msg("pruned orphaned images")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

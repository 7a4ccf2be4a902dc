package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	activityHandler "pulseboard/internal/activity/handler"
	activityService "pulseboard/internal/activity/service"
	activityStore "pulseboard/internal/activity/store"
	adminHandler "pulseboard/internal/admin"
	httpapi "pulseboard/internal/http"
	"pulseboard/internal/identity"
	identityKafka "pulseboard/internal/identity/kafka"
	"pulseboard/internal/jwtauth"
	"pulseboard/internal/notification/cache"
	notificationHandler "pulseboard/internal/notification/handler"
	notificationService "pulseboard/internal/notification/service"
	notificationStore "pulseboard/internal/notification/store"
	"pulseboard/internal/platform/config"
	"pulseboard/internal/platform/httpserver"
	"pulseboard/internal/platform/kafka"
	"pulseboard/internal/platform/logger"
	"pulseboard/internal/platform/metrics"
	"pulseboard/internal/platform/postgres"
	"pulseboard/internal/platform/redis"
	profileHandler "pulseboard/internal/profile/handler"
	profileService "pulseboard/internal/profile/service"
	profileStore "pulseboard/internal/profile/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when a URL is configured, in-memory otherwise.
	var (
		profiles      profileService.ProfileStore
		notifications notificationService.Store
		activities    activityService.Store
	)
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		profiles = profileStore.NewPostgres(db)
		notifications = notificationStore.NewPostgres(db)
		activities = activityStore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		profiles = profileStore.NewInMemory()
		notifications = notificationStore.NewInMemory()
		activities = activityStore.NewInMemory()
		log.Info("using in-memory stores")
	}

	notificationOpts := []notificationService.Option{
		notificationService.WithLogger(log),
		notificationService.WithMetrics(m),
	}
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		notificationOpts = append(notificationOpts,
			notificationService.WithUnreadCache(cache.NewUnreadCounts(redisClient, cfg.Redis.CacheTTL)))
		log.Info("unread-count cache enabled")
	}

	// The in-memory identity store doubles as identity reader and as the
	// in-process lifecycle event source for dev and tests.
	identityStore := identity.NewInMemoryStore()

	notificationSvc := notificationService.New(notifications, notificationOpts...)
	activitySvc := activityService.New(activities,
		activityService.WithLogger(log),
		activityService.WithMetrics(m),
	)
	coordinator := profileService.New(profiles, identityStore,
		profileService.WithLogger(log),
		profileService.WithMetrics(m),
		profileService.WithCascade(notifications, activities),
	)
	coordinator.Subscribe(identityStore)

	g, ctx := errgroup.WithContext(ctx)

	// Optional Kafka consumer for lifecycle events from the identity provider.
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := kafka.NewClient(cfg.Kafka)
		if err != nil {
			return err
		}
		if err := kafka.EnsureTopic(ctx, kafkaClient, cfg.Kafka.LifecycleTopic); err != nil {
			kafkaClient.Close()
			return err
		}
		consumer := identityKafka.NewConsumer(kafkaClient, log)
		consumer.Subscribe(coordinator)
		g.Go(func() error {
			defer consumer.Close()
			return consumer.Run(ctx)
		})
		log.Info("lifecycle consumer started",
			"topic", cfg.Kafka.LifecycleTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
	}

	validator := jwtauth.NewValidator(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        m,
		Validator:      validator,
		AdminTokenHash: cfg.Auth.AdminTokenHash,
		RequestTimeout: cfg.Server.RequestTimeout,
		Profiles:       profileHandler.New(coordinator, log),
		Notifications:  notificationHandler.New(notificationSvc, log),
		Activities:     activityHandler.New(activitySvc, log),
		Admin:          adminHandler.New(notificationSvc, activitySvc, coordinator, log),
	})

	srv := httpserver.New(cfg.Server, router)

	g.Go(func() error {
		log.Info("starting pulseboard", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/visualmate/visualmate/backend/admin-service/handlers"
	"github.com/visualmate/visualmate/backend/admin-service/internal/actionlog"
	"github.com/visualmate/visualmate/backend/admin-service/internal/authstate"
	"github.com/visualmate/visualmate/backend/admin-service/internal/config"
	"github.com/visualmate/visualmate/backend/admin-service/internal/convlogs"
	"github.com/visualmate/visualmate/backend/admin-service/internal/database"
	"github.com/visualmate/visualmate/backend/admin-service/internal/feedback"
	"github.com/visualmate/visualmate/backend/admin-service/internal/identity"
	"github.com/visualmate/visualmate/backend/admin-service/internal/live"
	"github.com/visualmate/visualmate/backend/admin-service/internal/sessions"
	"github.com/visualmate/visualmate/backend/admin-service/internal/users"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/metrics"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/middleware"
)

var startTime = time.Now()

// fanout forwards change notifications to every interested component: the
// live hub reloads snapshots, the auth resolver drops cached roles.
type fanout []interface{ Notify(collection string) }

func (f fanout) Notify(collection string) {
	for _, t := range f {
		t.Notify(collection)
	}
}

func main() {
	logger.Init("visualmate-admin", os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Info().
		Bool("mongo", cfg.MongoDB.URI != "").
		Bool("redis", cfg.Redis.Host != "").
		Msg("config loaded")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test; production deployments sit
	// behind a stricter reverse proxy policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter, throttle and blacklist can
	// use it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Info().Str("addr", cfg.Redis.Host+":"+cfg.Redis.Port).Msg("connected to Redis")
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// MongoDB with retry/backoff to tolerate startup races.
	ctx := context.Background()
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", attempt).Int("max", maxAttempts).Msg("failed to connect to MongoDB")
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() { _ = client.Disconnect(ctx) }()
	db := client.Database(cfg.MongoDB.Database)

	// Live snapshot hub and auth-state resolver both react to writes.
	hub := live.NewHub()
	defer hub.Close()

	profileRepo := users.NewMongoProfileRepository(db)
	feedbackRepo := feedback.NewMongoRepository(db)
	logsRepo := convlogs.NewMongoRepository(db)
	audit := actionlog.NewMongoRecorder(db)

	var resolver *authstate.Resolver
	usersSvc := users.NewService(profileRepo, fanout{hub, authstate.NotifierFunc(func(collection string) {
		if resolver != nil {
			resolver.Notify(collection)
		}
	})})
	resolver = authstate.NewResolver(usersSvc)
	feedbackSvc := feedback.NewService(feedbackRepo, hub)

	hub.RegisterCollection(database.UsersCollection, func(ctx context.Context) (interface{}, error) {
		profiles, err := usersSvc.List(ctx)
		if err != nil {
			return nil, err
		}
		return users.NewTableRows(profiles), nil
	})
	hub.RegisterCollection(database.FeedbackCollection, func(ctx context.Context) (interface{}, error) {
		list, err := feedbackSvc.ListFeedback(ctx)
		if err != nil {
			return nil, err
		}
		return feedback.NewCards(list), nil
	})
	hub.RegisterCollection(database.FAQsCollection, func(ctx context.Context) (interface{}, error) {
		return feedbackSvc.ListFAQs(ctx)
	})

	// Change streams pick up writes from the mobile app. Requires a replica
	// set; on standalone Mongo the watcher retries and in-process writes
	// still notify the hub directly.
	watcher := live.NewWatcher(db, hub)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	for _, coll := range []string{database.UsersCollection, database.FeedbackCollection, database.FAQsCollection} {
		go watcher.Watch(watchCtx, coll)
	}

	// Identity provider: credentials in Mongo, throttle and reset tokens in
	// Redis when available.
	credRepo := identity.NewMongoCredentialRepository(db)
	var throttle *identity.LoginThrottle
	var resets *identity.ResetTokenStore
	if redisClient != nil {
		throttle = identity.NewLoginThrottle(redisClient, cfg.Accounts.MaxLoginAttempts, cfg.Accounts.LoginAttemptsTTL)
		resets = identity.NewResetTokenStore(redisClient, cfg.Accounts.ResetTokenTTL)
	}
	identitySvc := identity.NewService(credRepo, throttle, resets, nil)

	// Sessions: Redis when available, Mongo otherwise.
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Info().Msg("using Redis for session storage")
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection(database.SessionsCollection)))
		logger.Info().Msg("using MongoDB for session storage")
	}

	// Route registration.
	authHandler := handlers.NewAuthHandler(cfg, identitySvc, usersSvc, sessionsSvc, resolver)
	authHandler.Register(r.Group("/"))
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWT.Secret, resolver),
		middleware.RequireConsoleAccess(),
	)
	api.GET("/me", authHandler.Me)
	handlers.NewUsersHandler(cfg, usersSvc, identitySvc, logsRepo, audit).Register(api)
	handlers.NewFeedbackHandler(feedbackSvc).Register(api)
	handlers.NewAccountsHandler(identitySvc, usersSvc, audit).Register(api)
	handlers.NewLiveHandler(hub).Register(api)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongo": client.Ping(c.Request.Context(), nil) == nil,
			"redis": true,
		}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
		}
		ready := deps["mongo"] && deps["redis"]
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("starting admin service")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

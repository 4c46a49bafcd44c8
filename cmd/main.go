package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/fathima-sithara/social-service/internal/auth"
	"github.com/fathima-sithara/social-service/internal/config"
	"github.com/fathima-sithara/social-service/internal/handlers"
	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/metrics"
	"github.com/fathima-sithara/social-service/internal/middleware"
	"github.com/fathima-sithara/social-service/internal/repository"
	"github.com/fathima-sithara/social-service/internal/scheduler"
	service "github.com/fathima-sithara/social-service/internal/services"
	"github.com/fathima-sithara/social-service/internal/storage"
	"github.com/fathima-sithara/social-service/internal/utils"
)

func main() {
	// load config
	cfgPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	// logger
	logger, err := utils.NewLogger(cfg.IsDevelopment(), cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zl := logger.Desugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// repositories
	var (
		posts   repository.PostRepository
		stories repository.StoryRepository
		users   repository.UserRepository
		mc      *mongo.Client
	)
	if cfg.Mongo.URI != "" {
		mc, err = repository.Connect(ctx, cfg.Mongo.URI, cfg.ConnectTimeout, zl)
		if err != nil {
			logger.Fatalf("mongo connect: %v", err)
		}
		db := mc.Database(cfg.Mongo.Database)
		postCol := db.Collection(cfg.Mongo.PostsCollection)
		storyCol := db.Collection(cfg.Mongo.StoriesCollection)
		if err := repository.EnsureIndexes(ctx, postCol, storyCol); err != nil {
			logger.Warnf("mongo indexes: %v", err)
		}
		posts = repository.NewPostRepo(postCol)
		stories = repository.NewStoryRepo(storyCol)
		users = repository.NewUserRepo(db.Collection(cfg.Mongo.UsersCollection))
	} else {
		logger.Warn("mongodb.uri not set, using in-memory repositories")
		posts = repository.NewMemoryPostRepo()
		stories = repository.NewMemoryStoryRepo()
		users = repository.NewMemoryUserRepo()
	}

	// media host
	store, err := storage.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.BreakerConfig(), zl.Named("cloudinary"))
	if err != nil {
		logger.Fatalf("cloudinary init: %v", err)
	}

	m := metrics.New()
	mgr := media.NewManager(cfg.MediaConfig(), store, zl.Named("media"), media.WithObserver(m))

	// services
	postSvc := service.NewPostService(posts, mgr, zl.Named("posts"))
	storySvc := service.NewStoryService(stories, mgr, zl.Named("stories"))
	userSvc := service.NewUserService(users, mgr, zl.Named("users"), cfg.Media.AvatarSize)
	sweeper := service.NewSweeper(storySvc, zl.Named("sweeper"),
		service.WithRate(cfg.Sweeper.RatePerSecond),
		service.WithSweepObserver(m))

	sched := scheduler.New(zl.Named("scheduler"))
	if err := sched.Add("story-sweep", cfg.Sweeper.Schedule, cfg.Sweeper.RunOnStart, func(ctx context.Context) error {
		_, err := sweeper.Sweep(ctx, cfg.StoryMaxAge)
		return err
	}); err != nil {
		logger.Fatalf("scheduler: %v", err)
	}

	// JWT Verifier
	verifier, err := auth.NewJWTVerifier(cfg.JWT.PublicKeyPath)
	if err != nil {
		logger.Fatalf("jwt init: %v", err)
	}

	// optional upload throttling
	var (
		uploadGuard fiber.Handler
		rdb         *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			logger.Warnf("redis ping: %v (upload limiter fails open)", err)
		}
		cancel()
		rl := middleware.NewRateLimiter(middleware.RedisCounter{Redis: rdb}, "upload", cfg.Redis.UploadLimit, cfg.UploadWindow, zl.Named("ratelimit"))
		uploadGuard = rl.MiddlewareByKey(middleware.ByUser)
	}

	// fiber app & routes
	limits := mgr.Limits()
	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(max(limits.Video, limits.Image, limits.Story) + media.MiB),
	})
	app.Use(recover.New())
	app.Use(middleware.ZapLogger(zl.Named("http")))

	h := handlers.NewHandler(handlers.Deps{
		Posts:       postSvc,
		Stories:     storySvc,
		Users:       userSvc,
		Sweeper:     sweeper,
		Media:       mgr,
		StoryMaxAge: cfg.StoryMaxAge,
		Log:         zl.Named("handlers"),
	})
	h.Register(app, middleware.JWTAuth(verifier, zl.Named("auth")), uploadGuard)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "media_host": store.State()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("starting social service on %s", addr)
		return app.Listen(addr)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("service stopped: %v", err)
	}

	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if mc != nil {
		_ = mc.Disconnect(timeoutCtx)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("shutdown completed")
}

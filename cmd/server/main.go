package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"post-muse/internal/config"
	"post-muse/internal/domain"
	"post-muse/internal/draft"
	apphttp "post-muse/internal/http"
	"post-muse/internal/platform"
	"post-muse/internal/publisher"
	"post-muse/internal/quota"
	"post-muse/internal/repository/sqlite"
	"post-muse/internal/service"
	"post-muse/internal/storage"
	"post-muse/internal/vault"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}
	if strings.TrimSpace(cfg.Auth.AdminSecret) == "" {
		logger.Fatalf("auth admin secret is required")
	}
	if strings.TrimSpace(cfg.Crypto.EncryptionKey) == "" {
		logger.Fatalf("crypto encryption key is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	draftRepo := sqlite.NewDraftRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	tokenRepo := sqlite.NewTokenRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := draftRepo.Init(ctx); err != nil {
		logger.Fatalf("init draft repository: %v", err)
	}
	if err := postRepo.Init(ctx); err != nil {
		logger.Fatalf("init post repository: %v", err)
	}
	if err := tokenRepo.Init(ctx); err != nil {
		logger.Fatalf("init token repository: %v", err)
	}

	tokenVault, err := vault.New(tokenRepo, cfg.Crypto.EncryptionKey)
	if err != nil {
		logger.Fatalf("setup token vault: %v", err)
	}

	textService, err := buildTextService(ctx, cfg)
	if err != nil {
		logger.Fatalf("setup text service: %v", err)
	}

	generator := draft.NewGenerator(textService, draft.GeneratorConfig{
		Timeout:       time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
		MaxConcurrent: cfg.Gemini.MaxConcurrent,
		Logger:        logger,
	})

	userService := service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.AdminSecret)
	draftService := service.NewDraftService(draftRepo, generator)
	postService := service.NewPostService(postRepo)

	enforcer := quota.NewEnforcer(userRepo, domain.FreeTierMonthlyCap)

	archiver, err := buildArchiver(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup archive: %v", err)
	}

	adapters := []platform.Adapter{
		platform.NewTwitterAdapter(platform.TwitterCredentials{
			ConsumerKey:       cfg.Twitter.ConsumerKey,
			ConsumerSecret:    cfg.Twitter.ConsumerSecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		}),
		platform.NewInstagramAdapter(tokenVault),
	}

	dispatcher := publisher.NewDispatcher(enforcer, postRepo, adapters, publisher.Config{
		PlatformTimeout: time.Duration(cfg.Publish.PlatformTimeoutSeconds) * time.Second,
		Logger:          logger,
		Archive:         archiver,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		userService,
		draftService,
		postService,
		dispatcher,
		tokenVault,
		archiver,
		logger,
		cfg.Auth.JWTSecret,
		cfg.RateLimit.PerSecond,
		cfg.RateLimit.Burst,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildTextService(ctx context.Context, cfg config.Config) (draft.TextService, error) {
	if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	return draft.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
}

// buildArchiver is optional wiring. Without a bucket configured, posts live
// only in the database.
func buildArchiver(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*storage.Archiver, error) {
	if cfg.Archive.Bucket == "" {
		logger.Info("post archive disabled: no bucket configured")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Archive.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving posts to s3 bucket %s (region %s)", cfg.Archive.Bucket, cfg.Archive.Region)
	return storage.NewArchiver(storage.NewS3Service(client), cfg.Archive.Bucket, cfg.Archive.KeyPrefix), nil
}

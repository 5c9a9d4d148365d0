package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/config"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/infra/logger"
	s3infra "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/infra/s3"
	sweepjob "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/jobs/sweep"
	pgrepo "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/repo/postgres"
	contentsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/content"
	modsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/moderation"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("postgres init failed", zap.Error(err))
	}
	defer pool.Close()

	s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Fatal("s3 init failed", zap.Error(err))
	}

	contentRepo := pgrepo.NewContentRepo(pool)
	moderationRepo := pgrepo.NewModerationRepo(pool)
	contentStorage := contentsvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	contentService := contentsvc.NewService(contentRepo, contentStorage)

	fallback := modsvc.NewFallbackClassifier()
	classifier := modsvc.NewRemoteClassifier(cfg.Moderation.Remote, fallback, log)
	moderationService := modsvc.NewService(moderationRepo, classifier, log)

	job := sweepjob.New(
		contentRepo,
		moderationRepo,
		moderationService,
		contentService,
		cfg.Moderation.Sweep.Limit,
		cfg.Moderation.Sweep.Pause,
		log,
	)

	interval := cfg.Moderation.Sweep.Interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	if _, err := job.Run(ctx); err != nil {
		log.Error("moderation sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweep runner stopped")
			return
		case <-ticker.C:
			if _, err := job.Run(ctx); err != nil {
				log.Error("moderation sweep failed", zap.Error(err))
			}
		}
	}
}

package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docuchat/internal/ai"
	"docuchat/internal/config"
	"docuchat/internal/model"
	postgresClient "docuchat/internal/platform/postgres"
	rabbitmqClient "docuchat/internal/platform/rabbitmq"
	redisClient "docuchat/internal/platform/redis"
	"docuchat/internal/platform/s3"
	"docuchat/internal/repository"
	"docuchat/internal/secrets"
	"docuchat/internal/worker"
)

type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Objects       *s3.Store
	LLM           *ai.Client
	CatalogWorker *worker.CatalogWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	if cfg.Secrets.Name != "" {
		bundle, err := secrets.Fetch(ctx, cfg.Secrets.Name, cfg.Secrets.Region)
		if err != nil {
			return nil, fmt.Errorf("fetch secret bundle failed: %w", err)
		}
		bundle.Overlay(cfg)
	} else {
		log.Printf("no secret name configured, using env/file config only")
	}

	db, err := postgresClient.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("create vector extension failed: %w", err)
	}
	if err := db.AutoMigrate(&model.Chat{}, &model.Chunk{}, &model.Document{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	objects, err := s3.New(ctx, cfg.S3.Region, cfg.S3.Bucket)
	if err != nil {
		return nil, err
	}

	docRepo := repository.NewDocumentRepository(db)
	catalogWorker := worker.NewCatalogWorker(mqConn, docRepo, cfg.RabbitMQ.CatalogQueue)
	if err := catalogWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start catalog worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		DB:            db,
		Redis:         redisCli,
		MQConn:        mqConn,
		Objects:       objects,
		LLM:           ai.NewClient(),
		CatalogWorker: catalogWorker,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CatalogWorker != nil {
		a.CatalogWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

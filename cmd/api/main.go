package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	"storefront/internal/infra/events"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/storage"
	"storefront/internal/infra/token"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "storefront-api"}).Error(context.Background(), "load config", err)
		return err
	}

	format := "console"
	if cfg.IsProd() {
		format = "json"
	}
	log := logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		log.Error(ctx, "connect db", err)
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error(ctx, "migrate db", err)
		return err
	}

	//metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	health := map[string]server.HealthCheck{"db": db.Ping(gormDB)}

	//Redis（無ければキャッシュ無し）
	var cartCache usecase.CartCache = usecase.NopCartCache{}
	if cfg.Redis.Enabled() {
		rc, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.Error(ctx, "connect redis", err)
			return err
		}
		defer rc.Close()
		cartCache = rc
		health["redis"] = rc.Ping
	}

	//RabbitMQ（無ければイベントは捨てる）
	var publisher usecase.OrderEventPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Error(ctx, "connect rabbitmq", err)
			return err
		}
		defer p.Close()
		publisher = p
	}

	//MinIO（無ければアップロードは503）
	var imageStore usecase.ImageStore
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewImageStore(ctx, cfg.MinIO)
		if err != nil {
			log.Error(ctx, "connect minio", err)
			return err
		}
		imageStore = s
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	issuer := token.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, auditRepo, hasher, issuer, idGen, clock, log).
		WithAdminEmails(cfg.App.AdminEmails)
	cartUC := usecase.NewCartUsecase(txm, cartRepo, productRepo, cartCache, cartMetrics, log)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, txm, idGen, clock, log)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, txm, idGen, clock, log)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, publisher, idGen, clock, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, clock, log)
	auditUC := usecase.NewAuditUsecase(auditRepo, log)
	uploadUC := usecase.NewUploadUsecase(imageStore, log)

	//Handler生成
	srv := server.New(cfg, log, httpMetrics)
	srv.RegisterRoutes(server.Handlers{
		Guards:   handler.NewGuards(issuer, userRepo),
		Cart:     handler.NewCartHandler(cartUC),
		Category: handler.NewCategoryHandler(categoryUC),
		Product:  handler.NewProductHandler(productUC),
		Order:    handler.NewOrderHandler(orderUC),
		User:     handler.NewUserHandler(authUC),
		Admin:    handler.NewAdminHandler(adminOrderUC, authUC, auditUC),
		Upload:   handler.NewUploadHandler(uploadUC),
		Health:   health,
	}, registry)

	//Server起動
	if err := srv.Run(ctx); err != nil {
		log.Error(ctx, "http server", err)
		return err
	}
	log.Info(context.Background(), "server stopped")
	return nil
}

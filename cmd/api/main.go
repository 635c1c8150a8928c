package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/justmahmoud31/Ryo-Server/internal/auth"
	"github.com/justmahmoud31/Ryo-Server/internal/catalog"
	"github.com/justmahmoud31/Ryo-Server/internal/config"
	"github.com/justmahmoud31/Ryo-Server/internal/httpx"
	kafkax "github.com/justmahmoud31/Ryo-Server/internal/kafka"
	"github.com/justmahmoud31/Ryo-Server/internal/mailer"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/postgres"
	"github.com/justmahmoud31/Ryo-Server/internal/redisx"
	"github.com/justmahmoud31/Ryo-Server/internal/uploads"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, logger)
	statusProd.Start(ctx)

	// Mail + uploads
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, logger)
	uploadStore, err := uploads.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal("upload dir", zap.Error(err))
	}

	// Repos & services
	userRepo := &users.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	orderSvc := orders.NewService(&orders.Repo{DB: db}, logger)
	tokens := auth.NewTokens(cfg.JWTSecret)
	authSvc := &auth.Service{
		Users:  userRepo,
		Codes:  &auth.RedisCodes{RDB: rdb},
		Mail:   mail,
		Tokens: tokens,
		Log:    logger,
	}

	// Router & handlers
	router := httpx.NewRouter(logger, cfg.UploadDir)
	authn := httpx.Authenticate(tokens)
	adminOnly := httpx.RequireRoles(users.RoleAdmin)

	(&httpx.AuthHandler{Svc: authSvc}).Register(router, authn)
	(&httpx.UsersHandler{Repo: userRepo}).Register(router, authn, adminOnly)
	(&httpx.CatalogHandler{Repo: catalogRepo, Uploads: uploadStore}).Register(router, authn, adminOnly)
	(&httpx.ProductsHandler{Repo: catalogRepo, Uploads: uploadStore}).Register(router, authn, adminOnly)
	(&httpx.OrdersHandler{
		Svc:            orderSvc,
		Producer:       createdProd,
		StatusProducer: statusProd,
		Redis:          rdb,
		Service:        cfg.ServiceName,
	}).Register(router, authn, adminOnly)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	createdProd.Close()
	statusProd.Close()
	cancel()
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}

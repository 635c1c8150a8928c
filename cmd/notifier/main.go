package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/justmahmoud31/Ryo-Server/internal/config"
	kafkax "github.com/justmahmoud31/Ryo-Server/internal/kafka"
	"github.com/justmahmoud31/Ryo-Server/internal/mailer"
	"github.com/justmahmoud31/Ryo-Server/internal/notifier"
	"github.com/justmahmoud31/Ryo-Server/internal/orders"
	"github.com/justmahmoud31/Ryo-Server/internal/postgres"
	"github.com/justmahmoud31/Ryo-Server/internal/redisx"
	"github.com/justmahmoud31/Ryo-Server/internal/users"
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

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

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Users: &users.Repo{DB: db},
		Mail:  mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, logger),
		Dedup: &notifier.RedisDedup{RDB: rdb, Service: "notifier"},
		Log:   logger,
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers, err := strconv.Atoi(getenv("NOTIFIER_WORKERS", "4"))
	if err != nil || workers <= 0 {
		workers = 4
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCreated, workers, logger)

	go func() {
		logger.Info("notifier consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicOrderCreated),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carhive/rental-service/config"
	"github.com/carhive/rental-service/internal/events"
	"github.com/carhive/rental-service/internal/handler"
	"github.com/carhive/rental-service/internal/repository"
	"github.com/carhive/rental-service/internal/server"
	"github.com/carhive/rental-service/internal/service"
	"github.com/carhive/rental-service/migrations"
	"github.com/carhive/rental-service/pkg/kafka"
	"github.com/carhive/rental-service/pkg/logger"
	"github.com/carhive/rental-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "rental")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo reservations %v", err)
	}

	pub := events.NewNopPublisher()
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		defer producer.Close()
		pub = events.NewPublisher(producer, cfg.Kafka.Topic, log)
	}

	svc := service.NewService(repo, pub, log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	var eg errgroup.Group
	eg.Go(func() error {
		return srv.Run()
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err = eg.Wait(); err != nil {
		log.Debug("server stopped", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}

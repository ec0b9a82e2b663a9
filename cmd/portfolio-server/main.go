package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cybersoul/portfolio-service/internal/api"
	"github.com/cybersoul/portfolio-service/internal/config"
	"github.com/cybersoul/portfolio-service/internal/database"
	"github.com/cybersoul/portfolio-service/internal/fx"
	"github.com/cybersoul/portfolio-service/internal/kafka"
	"github.com/cybersoul/portfolio-service/internal/marketdata"
	"github.com/cybersoul/portfolio-service/internal/quotecache"
	"github.com/cybersoul/portfolio-service/internal/refresher"
	"github.com/cybersoul/portfolio-service/internal/snapshot"
	"github.com/cybersoul/portfolio-service/internal/stocks"
	"github.com/cybersoul/portfolio-service/internal/valuation"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// One-time import of the legacy JSON asset file, when configured
	if cfg.Refresh.LegacyAssets != "" {
		if _, err := os.Stat(cfg.Refresh.LegacyAssets); err == nil {
			n, err := db.ImportLegacyAssets(cfg.Refresh.LegacyAssets)
			if err != nil {
				log.Fatalf("Failed to import legacy assets: %v", err)
			}
			log.Printf("Imported %d legacy assets from %s", n, cfg.Refresh.LegacyAssets)
		}
	}

	marketClient := marketdata.NewClient(cfg.Market.BaseURL, cfg.Market.FetchTimeout)

	cache, err := quotecache.New(marketClient, cfg.Refresh.CacheCapacity)
	if err != nil {
		log.Fatalf("Failed to create quote cache: %v", err)
	}

	fxClient := fx.NewClient(cfg.Fx.BaseURL, cfg.Market.FetchTimeout)
	fxService := fx.NewService(fxClient, db, cfg.Fx.Pair)

	stockService := stocks.NewService(marketClient, db)
	engine := valuation.NewEngine(db, db, cache)
	store := snapshot.NewStore()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	var sinks []refresher.SnapshotSink
	sinks = append(sinks, producer)

	if cfg.Redis.Addr != "" {
		redisPublisher := snapshot.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisPublisher.Ping(ctx); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisPublisher.Close()
		sinks = append(sinks, redisPublisher)
	}

	loop := refresher.New(db, fxService, stockService, cache, engine, store,
		refresher.WithInterval(cfg.Refresh.Interval),
		refresher.WithFetchTimeout(cfg.Market.FetchTimeout),
		refresher.WithWorkers(cfg.Refresh.Workers),
		refresher.WithArchive(db),
		refresher.WithSinks(sinks...),
	)
	go loop.Run(ctx)

	// Optional ingestion of externally produced price bars
	if cfg.Kafka.ConsumerTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerTopic, cfg.Kafka.GroupID, db)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Printf("Kafka consumer stopped: %v", err)
			}
		}()
	}

	handler := api.NewHandler(db, producer, store, fxService, stockService)
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: api.SetupRoutes(handler),
	}

	go func() {
		log.Printf("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiosk-service/config"
	"kiosk-service/internal/api"
	"kiosk-service/internal/broker"
	"kiosk-service/internal/catalog"
	"kiosk-service/internal/redisclient"
	"kiosk-service/internal/report"
	"kiosk-service/internal/service"
	"kiosk-service/internal/simulation"
	"kiosk-service/internal/store"
	"kiosk-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting kiosk service")

	if cfg.Observ.JaegerEndpoint != "" {
		tp, err := util.InitTracer("kiosk-service", cfg.Observ.JaegerEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	cat := catalog.NewDefault()
	if cfg.Kiosk.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.Kiosk.CatalogFile)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		cat = loaded
	}
	logger.Info("Catalog loaded", zap.Int("products", cat.Len()))

	var sinks report.Fanout
	backends := map[string]api.Pinger{}

	if cfg.SinkEnabled("console") {
		sinks = append(sinks, report.NewConsole(os.Stdout))
	}
	if cfg.SinkEnabled("log") {
		sinks = append(sinks, report.NewLog(logger))
	}

	if cfg.SinkEnabled("kafka") {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicKiosk)
		defer producer.Close()
		sinks = append(sinks, broker.NewEventPublisher(producer))
		log.Println("Kafka producer initialized")
	}

	if cfg.SinkEnabled("redis") {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		sinks = append(sinks, redisclient.NewStockMirror(redisClient,
			time.Duration(cfg.Redis.SaleMarkerTTLSecs)*time.Second))
		backends["redis"] = redisClient
		log.Println("Redis connected")
	}

	if cfg.SinkEnabled("postgres") {
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare receipts table: %v", err)
		}
		sinks = append(sinks, store.NewJournal(db))
		backends["postgres"] = db
		log.Println("Database connected")
	}

	sales := service.NewSalesService(cat, sinks, cfg.Kiosk.CartMaxLines)

	var srv *http.Server
	if cfg.Server.Enabled {
		if cfg.Server.Env == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		router := gin.New()
		handler := api.NewHandler(sales, backends)
		handler.SetupRoutes(router)

		srv = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: router,
		}

		go func() {
			log.Printf("Starting ops server on port %s", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
	}

	summary, err := simulation.Run(context.Background(), sales, cfg.Simulation.Tender)
	if err != nil {
		logger.Error("Simulation failed", zap.Error(err))
	} else {
		logger.Info("Simulation finished",
			zap.Bool("completed", summary.Completed),
			zap.Int64("transaction_id", summary.Receipt.TransactionID),
			zap.Int("drills", len(summary.Drills)))
	}

	if !cfg.Simulation.ExitAfterwards {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
	}

	log.Println("Shutting down...")

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}

	log.Println("Kiosk exited")
}

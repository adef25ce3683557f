package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kiosk-service/config"
	"kiosk-service/internal/broker"
	"kiosk-service/internal/report"
	"kiosk-service/internal/util"
	"kiosk-service/internal/worker"
)

// kiosk-tail follows the kiosk event topic and prints it as console text
func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicKiosk, cfg.Kafka.ConsumerGroup)
	relay := worker.NewRelayWorker(consumer, report.NewConsole(os.Stdout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	if err := relay.Start(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Relay worker error: %v", err)
	}

	if err := relay.Stop(); err != nil {
		log.Printf("Error closing consumer: %v", err)
	}
}

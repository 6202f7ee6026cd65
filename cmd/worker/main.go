package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anisurarzu/hotelseashore/config"
	"github.com/anisurarzu/hotelseashore/internal/email"
	"github.com/anisurarzu/hotelseashore/internal/kafka"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("worker requires kafka.brokers")
	}

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.ReservationTopic
	}
	if topic == "" {
		log.Fatalf("worker requires kafka.notifications_topic or kafka.reservation_topic")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	defer consumer.Close()

	emailSender := email.NewSender()

	log.Printf("worker consuming topic=%s group=%s", topic, cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, kafka.ReservationHandler(emailSender.Send)); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("consumer stopped: %v", err)
		return
	}
	log.Printf("worker shut down")
}

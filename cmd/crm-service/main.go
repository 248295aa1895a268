package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/app"
	"github.com/vladislavdragonenkov/crm/internal/version"
)

const (
	envHTTPAddr     = "CRM_HTTP_ADDR"
	envMetricsAddr  = "CRM_METRICS_ADDR"
	envPostgresDSN  = "CRM_POSTGRES_DSN"
	envKafkaBrokers = "CRM_KAFKA_BROKERS"
)

// envLookup абстрагирует os.LookupEnv для тестов.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию приложения из переменных окружения.
func readConfigFromEnv(lookup envLookup) app.Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := app.DefaultConfig()
	if v, ok := lookup(envHTTPAddr); ok && strings.TrimSpace(v) != "" {
		cfg.HTTPAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPostgresDSN); ok {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = strings.TrimSpace(v)
	}
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfigFromEnv(os.LookupEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"version":      version.GetVersion(),
	}).Info("запускаем CRM сервис")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("CRM сервис остановлен")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/unclebandit/sem-planner-backend/internal/config"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/provider"
	"github.com/unclebandit/sem-planner-backend/internal/queue"
	"github.com/unclebandit/sem-planner-backend/internal/scraper"
	"github.com/unclebandit/sem-planner-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.AMQP.URL == "" {
		zapLog.Fatal("amqp.url is required for the worker")
	}

	keywordProvider, err := provider.New(cfg, log)
	if err != nil {
		zapLog.Fatal("keyword provider init failed", zap.Error(err))
	}

	q, err := queue.NewAMQPQueue(cfg.AMQP.URL, log)
	if err != nil {
		zapLog.Fatal("RabbitMQ connection failed", zap.Error(err))
	}
	defer q.Close()

	httpClient := scraper.NewHTTPClient(cfg.Scraper.Timeout, cfg.Scraper.BrowserTLS, log)
	campaignService := &service.CampaignService{
		Keywords: &service.KeywordService{
			Seeds:    scraper.NewSeedExtractor(httpClient, cfg.Scraper.UserAgent, cfg.Scraper.Timeout, log),
			Provider: keywordProvider,
			Logger:   log,
		},
		Queue:  q,
		Logger: log,
	}

	if err := queue.StartAnalysisEventSubscriber(q, log); err != nil {
		zapLog.Fatal("failed to register analysis event consumer", zap.Error(err))
	}

	worker := service.NewWorker(campaignService, q, cfg.AMQP.ResultQueue, log)
	if err := q.Subscribe(cfg.AMQP.RequestQueue, worker.Handle); err != nil {
		zapLog.Fatal("failed to register consumer", zap.Error(err))
	}

	log.Info("worker running, waiting for analysis jobs", map[string]interface{}{
		"request_queue": cfg.AMQP.RequestQueue,
		"result_queue":  cfg.AMQP.ResultQueue,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("worker stopped", nil)
}

// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/sem-planner-backend/internal/config"
	"github.com/unclebandit/sem-planner-backend/internal/controller"
	"github.com/unclebandit/sem-planner-backend/internal/handler"
	"github.com/unclebandit/sem-planner-backend/internal/logger"
	"github.com/unclebandit/sem-planner-backend/internal/middleware"
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

	if cfg.EnvFileMissing() {
		log.Warn("no .env file found, relying on OS environment variables", nil)
	}

	keywordProvider, err := provider.New(cfg, log)
	if err != nil {
		zapLog.Fatal("keyword provider init failed", zap.Error(err))
	}

	q, closeQueue := newEventQueue(cfg, log)
	defer closeQueue()

	httpClient := scraper.NewHTTPClient(cfg.Scraper.Timeout, cfg.Scraper.BrowserTLS, log)

	keywordService := &service.KeywordService{
		Seeds:    scraper.NewSeedExtractor(httpClient, cfg.Scraper.UserAgent, cfg.Scraper.Timeout, log),
		Provider: keywordProvider,
		Logger:   log,
	}

	campaignService := &service.CampaignService{
		Keywords: keywordService,
		Queue:    q,
		Logger:   log,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		Logger:          log,
	}

	r := newRouter(cfg, handler.NewInfoHandler(cfg.Version), campaignController)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 server running", map[string]interface{}{
			"addr":     srv.Addr,
			"provider": cfg.KeywordProvider,
			"version":  cfg.Version,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}

func newRouter(cfg *config.Config, info *handler.InfoHandler, campaigns *controller.CampaignController) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))

	r.Get("/", info.Root)
	r.Post("/analyze-sem-campaign", campaigns.AnalyzeSEMCampaign)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// newEventQueue connects to RabbitMQ when amqp.url is set and otherwise
// falls back to the in-process queue. Either way a logging subscriber drains
// the analysis event topic.
func newEventQueue(cfg *config.Config, log logger.Logger) (queue.Queue, func()) {
	var q queue.Queue
	closeQueue := func() {}

	if cfg.AMQP.URL != "" {
		aq, err := queue.NewAMQPQueue(cfg.AMQP.URL, log)
		if err == nil {
			log.Info("publishing analysis events to RabbitMQ", map[string]interface{}{"topic": queue.TopicAnalysisCompleted})
			q = aq
			closeQueue = func() { aq.Close() }
		} else {
			log.Warn("RabbitMQ unavailable, using in-memory queue", map[string]interface{}{"error": err.Error()})
		}
	}
	if q == nil {
		q = queue.NewInMemoryQueue(log)
	}

	if err := queue.StartAnalysisEventSubscriber(q, log); err != nil {
		log.Error("failed to start analysis event subscriber", map[string]interface{}{"error": err.Error()})
	}
	return q, closeQueue
}

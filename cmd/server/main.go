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

	"salesbot-service/config"
	"salesbot-service/internal/ai"
	"salesbot-service/internal/api"
	"salesbot-service/internal/broker"
	"salesbot-service/internal/catalog"
	"salesbot-service/internal/mailer"
	"salesbot-service/internal/pricing"
	"salesbot-service/internal/redisclient"
	"salesbot-service/internal/search"
	"salesbot-service/internal/service"
	"salesbot-service/internal/session"
	"salesbot-service/internal/store"
	"salesbot-service/internal/util"
	"salesbot-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting salesbot service")

	tp, err := util.InitTracer("salesbot-service", cfg.Observ.JaegerEndpoint)
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

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	products, err := db.LoadCatalog(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	index := catalog.BuildIndex(products, logger)
	if index.Len() == 0 {
		log.Println("Warning: catalog index is empty")
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	syncCtx, syncCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if snapshot, err := db.LoadInventorySnapshot(syncCtx); err != nil {
		log.Printf("Failed to load inventory snapshot: %v", err)
	} else if err := redisClient.SyncSnapshot(syncCtx, snapshot); err != nil {
		log.Printf("Failed to sync inventory snapshot to Redis: %v", err)
	}
	syncCancel()

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicChat)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	priceClient := pricing.NewClient(cfg.Pricing.BaseURL, cfg.Pricing.APIToken, cfg.Pricing.RequestTimeout)
	priceCache := pricing.NewCache(priceClient, cfg.Pricing.CacheTTL, logger)

	stockResolver := service.NewStockResolver(redisClient, index, cfg.Pricing.DefaultStock, logger)
	engine := search.NewEngine(index, stockResolver, cfg.Chat.MaxSearchResults, logger)
	renderer := service.NewCardRenderer(index, stockResolver, priceCache, logger)
	governance := service.NewGovernance(service.Rules{
		MaxOffersPerSession:  cfg.Commerce.MaxOffersPerSession,
		MinMessagesForUpsell: cfg.Commerce.MinMessagesForUpsell,
	}, index, stockResolver, logger)

	modelClient := ai.NewOpenAIClient(cfg.Chat.OpenAIAPIKey, cfg.Chat.OpenAIModel, cfg.Chat.ModelTimeout, logger)

	sessions := session.NewStore(cfg.Chat.HistoryLimit, cfg.Chat.SessionTTL, logger)

	chatService := service.NewChatService(
		sessions, engine, stockResolver, renderer, governance,
		modelClient, eventPublisher, index, logger,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go sessions.StartSweep(workerCtx, cfg.Chat.SweepInterval)

	escalationSender := mailer.NewSMTPSender(
		cfg.Mail.SMTPHost, cfg.Mail.SMTPPort,
		cfg.Mail.Username, cfg.Mail.Password,
		cfg.Mail.FromEmail, cfg.Mail.Recipients, logger,
	)

	escalationConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicChat, cfg.Kafka.ConsumerGroup)
	escalationWorker := worker.NewEscalationWorker(escalationConsumer, escalationSender)
	go func() {
		if err := escalationWorker.Start(workerCtx); err != nil {
			log.Printf("Escalation worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(chatService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	escalationWorker.Stop()

	log.Println("Server exited")
}

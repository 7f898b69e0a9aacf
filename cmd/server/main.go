package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/config"
	adminEvents "github.com/Hostella/service-admin/internal/events"
	"github.com/Hostella/service-admin/internal/handler"
	"github.com/Hostella/service-admin/internal/hostella"
	"github.com/Hostella/service-admin/internal/platform/database"
	"github.com/Hostella/service-admin/internal/platform/kafka"
	"github.com/Hostella/service-admin/internal/platform/logger"
	"github.com/Hostella/service-admin/internal/platform/middleware"
	"github.com/Hostella/service-admin/internal/realtime"
	"github.com/Hostella/service-admin/internal/repository"
)

const serviceName = "service-admin"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("api_base_url", cfg.APIBaseURL),
	)

	// Connect to the snapshot database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(repository.Models()...); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}
	log.Info("database migration completed", zap.String("driver", cfg.DBConfig.Driver))

	// Session token store
	var tokens hostella.TokenStore = hostella.NewMemoryTokenStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid redis url", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		tokens = hostella.NewRedisTokenStore(rdb)
		log.Info("using redis token store")
	}

	// Upstream API client. Request-scoped tokens from the session cookie win over the
	// stored one so background work still authenticates.
	client := hostella.NewClient(
		cfg.APIBaseURL,
		hostella.ChainTokenSource{hostella.ContextTokenSource{}, tokens},
		hostella.WithTimeout(cfg.RequestTimeout),
		hostella.WithLogger(log),
	)

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	memberRepo := repository.NewGormMemberRepository(db)
	receiptRepo := repository.NewGormReceiptRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka audit publisher, optional
	var publisher application.EventPublisher
	if cfg.KafkaConfig.EventsEnabled {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = adminEvents.NewKafkaPublisher(kafkaProducer, cfg.KafkaConfig.BookingTopic, log)
	}

	// Initialize application services
	adminService := application.NewAdminService(client, client, client, bookingRepo, paymentRepo, memberRepo, publisher, log)
	receiptService := application.NewReceiptService(client, receiptRepo, log)
	paymentService := application.NewPaymentService(client, client, paymentRepo, bookingRepo, publisher, log,
		application.WithReceiptReviews(receiptService),
	)
	notificationService := application.NewNotificationService(client, cfg.NotificationPollInterval, log)
	chatService := application.NewChatService(client, log)
	broadcastService := application.NewBroadcastService(client, log)
	authService := application.NewAuthService(client, tokens, log)

	// Payment event consumer, optional
	if cfg.KafkaConfig.EventsEnabled {
		groupID := cfg.KafkaConfig.GroupPrefix + "admin-service"
		paymentConsumer := adminEvents.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			cfg.KafkaConfig.PaymentTopic,
			adminService,
			log,
		)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer")
			if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Notification poller
	if err := notificationService.Start(ctx); err != nil {
		log.Fatal("failed to start notification poller", zap.Error(err))
	}

	// Realtime socket, optional
	var socket *realtime.Manager
	if cfg.SocketURL != "" {
		socket = realtime.NewManager(cfg.SocketURL, cfg.AdminID, tokens, log)
		socket.OnMessage(realtime.EventNotification, notificationService.HandleSocket)
		notificationService.OnNotification(adminService.BookingNotificationListener(ctx))
		socket.OnMessage(realtime.EventChatMessage, chatService.HandleSocket)
		socket.OnMessage(realtime.EventBookingEvent, func(data json.RawMessage) error {
			var evt struct {
				BookingID string `json:"bookingId"`
			}
			if err := json.Unmarshal(data, &evt); err != nil || evt.BookingID == "" {
				return err
			}
			return adminService.RefreshBooking(ctx, evt.BookingID)
		})
		go func() {
			if err := socket.Connect(ctx); err != nil && err != context.Canceled {
				log.Warn("realtime socket unavailable, falling back to polling", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RouteGuard(middleware.RouteGuardConfig{
		Protected: cfg.ProtectedPrefixes,
		APIPrefix: "/api",
	}))
	router.Use(middleware.TokenContextMiddleware(hostella.WithToken))

	// Register health check routes
	handler.NewHealthHandler(db, serviceName).RegisterRoutes(router)

	// Register routes
	api := &router.RouterGroup
	handler.NewAuthHandler(authService, cfg.AppEnv == "production").RegisterRoutes(api)
	handler.NewDashboardHandler(adminService).RegisterRoutes(api)
	handler.NewBookingHandler(adminService).RegisterRoutes(api)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(api)
	handler.NewReceiptHandler(receiptService).RegisterRoutes(api)
	handler.NewMemberHandler(adminService).RegisterRoutes(api)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(api)
	handler.NewChatHandler(chatService).RegisterRoutes(api)
	handler.NewBroadcastHandler(broadcastService).RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel background consumers
	cancel()
	if socket != nil {
		socket.Disconnect()
	}
	if err := notificationService.Stop(); err != nil {
		log.Warn("notification poller stop error", zap.Error(err))
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

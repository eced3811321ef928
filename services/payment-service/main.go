package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/auth"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/logger"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/middleware"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/config"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/controllers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/database"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/events"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/repository"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/routes"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/services"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
)

const serviceName = "payment-service"

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)

	var sink io.Writer
	if awsErr == nil {
		if w, err := awspkg.NewCloudWatchLogsWriter(ctx, awsCfg, serviceName); err != nil {
			log.Printf("CloudWatch Logs unavailable: %v", err)
		} else if w.IsEnabled() {
			sink = w
		}
	}

	zapLogger, err := logger.New(cfg.Env, sink)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if awsErr != nil {
		zapLogger.Warn("AWS config unavailable, SNS/SQS/S3/CloudWatch disabled", zap.Error(awsErr))
	}

	if err := models.RegisterValidators(); err != nil {
		zapLogger.Fatal("Failed to register validators", zap.Error(err))
	}

	db, err := database.Connect(ctx, cfg.PostgresDSN(), zapLogger, &models.PaymentRecord{}, &models.InternshipApplication{})
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	paymentRepo := repository.NewGormPaymentRepository(db)
	applicationRepo := repository.NewGormApplicationRepository(db)

	creatorOpts := []services.OrderCreatorOption{services.WithPaymentRecords(paymentRepo)}
	if cfg.RedisURL != "" {
		redisClient, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("Redis unavailable, receipt cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			creatorOpts = append(creatorOpts, services.WithReceiptCache(repository.NewRedisReceiptCache(redisClient, cfg.ReceiptTTL)))
		}
	}

	publisher, closePublisher := newPublisher(cfg, awsCfg, awsErr, zapLogger)
	defer closePublisher()
	creatorOpts = append(creatorOpts, services.WithOrderEvents(publisher))

	var metrics awspkg.MetricsRecorder
	if awsErr == nil {
		if mc := awspkg.NewMetricsClient(awsCfg); mc.IsEnabled() {
			metrics = mc
			creatorOpts = append(creatorOpts, services.WithOrderMetrics(mc))
		}
	}

	var presigner awspkg.UploadPresigner
	if awsErr == nil && cfg.ResumeBucket != "" {
		s3p := awspkg.NewS3Presigner(awsCfg, cfg.ResumeBucket)
		zapLogger.Info("Resume uploads enabled", zap.String("bucket", s3p.Bucket()))
		presigner = s3p
	}

	gateway := providers.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	verifier := signature.NewHMACVerifier(cfg.RazorpayKeySecret)

	creator := services.NewOrderCreator(gateway, services.OrderSettings{
		DefaultCurrency: cfg.DefaultCurrency,
		Capture:         cfg.PaymentCapture,
		MaxAttempts:     cfg.MaxRetryAttempts,
		BaseDelay:       cfg.RetryDelay,
	}, zapLogger, creatorOpts...)
	if budget := creator.RetryBudget(); budget >= cfg.RequestTimeout {
		zapLogger.Warn("Retry backoff exceeds request timeout; later attempts will be cut short",
			zap.Duration("retry_budget", budget),
			zap.Duration("request_timeout", cfg.RequestTimeout),
		)
	}

	paymentService := services.NewPaymentService(creator, gateway, verifier, services.PaymentDeps{
		Records:      paymentRepo,
		Applications: applicationRepo,
		Events:       publisher,
		Metrics:      metrics,
	}, zapLogger)
	applicationService := services.NewApplicationService(services.ApplicationDeps{
		Repo:            applicationRepo,
		Records:         paymentRepo,
		Gateway:         gateway,
		Verifier:        verifier,
		Presigner:       presigner,
		ResumeExpires:   cfg.ResumeURLExpires,
		FreeInternships: cfg.FreeInternshipIDs,
		Events:          publisher,
		Metrics:         metrics,
	}, zapLogger)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 10*time.Minute)
	r := newRouter(cfg, zapLogger, metrics, limiter,
		controllers.NewPaymentController(paymentService, controllers.CheckoutConfig{
			KeyID:             cfg.RazorpayKeyID,
			Currency:          cfg.DefaultCurrency,
			CheckoutScriptURL: cfg.CheckoutScriptURL,
		}, zapLogger),
		controllers.NewApplicationController(applicationService, zapLogger),
		auth.NewTokenValidator(cfg.JWTSecret),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepLimiter(sweepCtx, limiter)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Payment service started",
		zap.String("port", cfg.Port),
		zap.String("event_bus", cfg.EventBus),
		zap.Bool("receipt_cache", cfg.RedisURL != ""),
	)
	<-quit
	zapLogger.Info("Shutting down payment service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited cleanly")
}

func newRouter(
	cfg *config.Config,
	log *zap.Logger,
	metrics awspkg.MetricsRecorder,
	limiter *middleware.RateLimiter,
	pc *controllers.PaymentController,
	ac *controllers.ApplicationController,
	tokens *auth.TokenValidator,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log, "/health"))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, serviceName))
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})

	// Routes registered below this point are rate limited; /health is not.
	r.Use(middleware.RateLimit(limiter))
	routes.RegisterPaymentRoutes(r, pc)
	routes.RegisterApplicationRoutes(r, ac, tokens)
	return r
}

// newPublisher selects the event sink. The returned func releases it.
func newPublisher(cfg *config.Config, awsCfg sdkaws.Config, awsErr error, log *zap.Logger) (events.Publisher, func()) {
	noop := func() {}
	switch cfg.EventBus {
	case config.EventBusKafka:
		p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		return p, func() { _ = p.Close() }
	case config.EventBusSNS, config.EventBusSQS:
		if awsErr != nil {
			log.Warn("Event bus requires AWS config, events disabled", zap.String("event_bus", cfg.EventBus))
			return events.NoopPublisher{}, noop
		}
		if cfg.EventBus == config.EventBusSNS {
			return events.NewSNSPublisher(awspkg.NewSNSClient(awsCfg), cfg.PaymentSNSTopicARN), noop
		}
		return events.NewSQSPublisher(awspkg.NewSQSProducer(awsCfg, cfg.PaymentSQSQueueURL)), noop
	default:
		return events.NoopPublisher{}, noop
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			limiter.Sweep(now)
		}
	}
}

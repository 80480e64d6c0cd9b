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
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/abhishekgaud7/PG-Backend/internal/http/handlers"
	"github.com/abhishekgaud7/PG-Backend/internal/http/middleware"
	"github.com/abhishekgaud7/PG-Backend/internal/repo/postgres"
	"github.com/abhishekgaud7/PG-Backend/internal/service"
	"github.com/abhishekgaud7/PG-Backend/internal/sms"
	"github.com/abhishekgaud7/PG-Backend/pkg/config"
	"github.com/abhishekgaud7/PG-Backend/pkg/database"
	"github.com/abhishekgaud7/PG-Backend/pkg/events"
	"github.com/abhishekgaud7/PG-Backend/pkg/logger"
	mw "github.com/abhishekgaud7/PG-Backend/pkg/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Rate limiting fails open, so a missing Redis is not fatal.
		logger.Warn("Redis unreachable, rate limiting disabled", "error", err)
	}

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	userRepo := postgres.NewUserRepo(pool)
	otpRepo := postgres.NewOTPRepo(pool)
	propertyRepo := postgres.NewPropertyRepo(pool)
	bookingRepo := postgres.NewBookingRepo(pool)

	smsSender := sms.Sender(sms.NewDevSender())
	if !cfg.SMS.DevMode {
		logger.Warn("No SMS provider configured, codes will only be logged")
	}

	authService := service.NewAuthService(userRepo, cfg)
	otpService := service.NewOTPService(otpRepo, userRepo, smsSender, eventBus, cfg)
	propertyService := service.NewPropertyService(propertyRepo)
	bookingService := service.NewBookingService(bookingRepo, propertyRepo, eventBus)

	authMiddleware := middleware.NewAuth(userRepo, cfg.Auth.JWTSecret)
	limiter := middleware.NewRateLimiter(redisClient)

	authHandler := handlers.NewAuthHandler(authService, otpService, limiter)
	propertyHandler := handlers.NewPropertyHandler(propertyService, authMiddleware)
	bookingHandler := handlers.NewBookingHandler(bookingService, authMiddleware)
	paymentHandler := handlers.NewPaymentHandler(authMiddleware)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/properties", propertyHandler.Routes())
		r.Mount("/bookings", bookingHandler.Routes())
		r.Mount("/payments", paymentHandler.Routes())
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "port", cfg.Server.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return otpService.RunReaper(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

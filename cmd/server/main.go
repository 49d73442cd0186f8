package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slimsquad/api/internal/config"
	"github.com/slimsquad/api/internal/database"
	"github.com/slimsquad/api/internal/handler"
	"github.com/slimsquad/api/internal/jobs"
	"github.com/slimsquad/api/internal/middleware"
	"github.com/slimsquad/api/internal/repository"
	"github.com/slimsquad/api/internal/service"
	"github.com/slimsquad/api/pkg/jwt"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting slimsquad api",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Connect to SurrealDB
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Connect(ctx); err != nil {
		cancel()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	cancel()
	defer db.Close()

	slog.Info("connected to database",
		"host", cfg.Database.Host,
		"namespace", cfg.Database.Namespace,
	)

	// JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	joinRequestRepo := repository.NewJoinRequestRepository(db)
	weightLogRepo := repository.NewWeightLogRepository(db)

	// Services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      jwtService,
		TokenRepo:       tokenRepo,
		RefreshDuration: time.Duration(cfg.JWT.RefreshDays) * 24 * time.Hour,
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})
	challengeService := service.NewChallengeService(service.ChallengeServiceConfig{
		ChallengeRepo: challengeRepo,
	})
	joinRequestService := service.NewJoinRequestService(service.JoinRequestServiceConfig{
		JoinRequestRepo:  joinRequestRepo,
		UserRepo:         userRepo,
		ChallengeService: challengeService,
	})
	weightLogService := service.NewWeightLogService(service.WeightLogServiceConfig{
		WeightLogRepo: weightLogRepo,
	})
	progressService := service.NewProgressService(service.ProgressServiceConfig{
		WeightLogRepo:    weightLogRepo,
		ChallengeService: challengeService,
	})
	adminService := service.NewAdminService(service.AdminServiceConfig{
		Users:      userRepo,
		Challenges: challengeRepo,
		WeightLogs: weightLogRepo,
	})

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Idempotency store for safely retryable writes
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Background jobs
	statusProcessor := jobs.NewChallengeStatusProcessor(challengeRepo, tokenRepo, cfg.Jobs.StatusSweepInterval)
	statusProcessor.Start()
	defer statusProcessor.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	joinRequestHandler := handler.NewJoinRequestHandler(joinRequestService)
	weightLogHandler := handler.NewWeightLogHandler(weightLogService)
	progressHandler := handler.NewProgressHandler(progressService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler(db)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Public auth endpoints
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	authMiddleware := middleware.Auth(authService)
	challengeAccess := middleware.ChallengeAccess(challengeService)

	// Account
	mux.Handle("POST /api/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/auth/me", authMiddleware(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("POST /api/auth/password", authMiddleware(http.HandlerFunc(authHandler.ChangePassword)))

	// Challenges
	mux.Handle("GET /api/challenges", authMiddleware(http.HandlerFunc(challengeHandler.List)))
	mux.Handle("POST /api/challenges", authMiddleware(http.HandlerFunc(challengeHandler.Create)))
	mux.Handle("GET /api/challenges/discover", authMiddleware(http.HandlerFunc(challengeHandler.Discover)))
	mux.Handle("GET /api/challenges/{challengeId}", authMiddleware(http.HandlerFunc(challengeHandler.Get)))
	mux.Handle("PATCH /api/challenges/{challengeId}", authMiddleware(http.HandlerFunc(challengeHandler.Update)))
	mux.Handle("DELETE /api/challenges/{challengeId}", authMiddleware(http.HandlerFunc(challengeHandler.Delete)))
	mux.Handle("POST /api/challenges/{challengeId}/cancel", authMiddleware(http.HandlerFunc(challengeHandler.Cancel)))
	mux.Handle("POST /api/challenges/{challengeId}/join", authMiddleware(http.HandlerFunc(challengeHandler.Join)))
	mux.Handle("POST /api/challenges/{challengeId}/leave", authMiddleware(http.HandlerFunc(challengeHandler.Leave)))
	mux.Handle("GET /api/challenges/{challengeId}/participants", authMiddleware(http.HandlerFunc(challengeHandler.Participants)))
	mux.Handle("PATCH /api/challenges/{challengeId}/membership", authMiddleware(http.HandlerFunc(challengeHandler.UpdateMembership)))
	mux.Handle("GET /api/challenges/{challengeId}/progress", authMiddleware(challengeAccess(http.HandlerFunc(progressHandler.Get))))

	// Join requests and invites
	mux.Handle("POST /api/challenges/{challengeId}/join-requests", authMiddleware(http.HandlerFunc(joinRequestHandler.Create)))
	mux.Handle("GET /api/challenges/{challengeId}/join-requests", authMiddleware(http.HandlerFunc(joinRequestHandler.ListForChallenge)))
	mux.Handle("POST /api/challenges/{challengeId}/invites", authMiddleware(http.HandlerFunc(joinRequestHandler.Invite)))
	mux.Handle("GET /api/join-requests", authMiddleware(http.HandlerFunc(joinRequestHandler.ListOwn)))
	mux.Handle("POST /api/join-requests/{requestId}/approve", authMiddleware(http.HandlerFunc(joinRequestHandler.Approve)))
	mux.Handle("POST /api/join-requests/{requestId}/reject", authMiddleware(http.HandlerFunc(joinRequestHandler.Reject)))
	mux.Handle("POST /api/join-requests/{requestId}/accept", authMiddleware(http.HandlerFunc(joinRequestHandler.AcceptInvite)))
	mux.Handle("POST /api/join-requests/{requestId}/decline", authMiddleware(http.HandlerFunc(joinRequestHandler.DeclineInvite)))
	mux.Handle("DELETE /api/join-requests/{requestId}", authMiddleware(http.HandlerFunc(joinRequestHandler.Withdraw)))

	// Weight logs
	mux.Handle("POST /api/weight-logs", authMiddleware(http.HandlerFunc(weightLogHandler.Create)))
	mux.Handle("GET /api/weight-logs", authMiddleware(http.HandlerFunc(weightLogHandler.List)))
	mux.Handle("GET /api/weight-logs/{logId}", authMiddleware(http.HandlerFunc(weightLogHandler.Get)))
	mux.Handle("PATCH /api/weight-logs/{logId}", authMiddleware(http.HandlerFunc(weightLogHandler.Update)))
	mux.Handle("DELETE /api/weight-logs/{logId}", authMiddleware(http.HandlerFunc(weightLogHandler.Delete)))

	// Admin
	adminOnly := middleware.AdminAuth(authService)
	mux.Handle("GET /api/admin/stats", adminOnly(http.HandlerFunc(adminHandler.Stats)))

	// Global middleware chain
	chained := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      chained,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

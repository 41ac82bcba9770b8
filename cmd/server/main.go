package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/config"
	"github.com/VyankateshKedar/sparkAppBackend/internal/handler"
	"github.com/VyankateshKedar/sparkAppBackend/internal/mailer"
	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
	"github.com/VyankateshKedar/sparkAppBackend/internal/scheduler"
	"github.com/VyankateshKedar/sparkAppBackend/internal/service"
	"github.com/VyankateshKedar/sparkAppBackend/internal/visitor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be set")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	postgresRepo, err := repository.NewPostgresRepository(&cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer postgresRepo.Close()
	log.Println("Connected to PostgreSQL")

	redisRepo, err := repository.NewRedisRepository(&cfg.Redis, cfg.Link.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisRepo.Close()
	log.Println("Connected to Redis")

	var geo visitor.GeoResolver = visitor.NoopResolver{}
	if cfg.Geo.MMDBPath != "" {
		maxmind, err := visitor.NewMaxMindResolver(cfg.Geo.MMDBPath)
		if err != nil {
			log.Fatalf("Failed to open GeoIP database: %v", err)
		}
		defer maxmind.Close()
		geo = maxmind
		log.Printf("GeoIP database loaded from %s", cfg.Geo.MMDBPath)
	} else {
		log.Println("GeoIP database not configured; locations resolve to unknown")
	}
	classifier := visitor.NewClassifier(geo)

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTP.Host != "" {
		smtp, err := mailer.NewSMTPMailer(&cfg.SMTP)
		if err != nil {
			log.Fatalf("Failed to configure SMTP mailer: %v", err)
		}
		mail = smtp
	}

	tokens := middleware.NewTokenIssuer(&cfg.Auth)

	linkService := service.NewLinkService(postgresRepo, redisRepo, cfg.Link.ShortCodeLength)
	analyticsService := service.NewAnalyticsService(postgresRepo, postgresRepo, classifier)
	userService := service.NewUserService(postgresRepo, postgresRepo, mail, cfg.App.FrontendURL, cfg.Auth.ResetTokenTTL)

	retentionScheduler := scheduler.NewRetentionScheduler(postgresRepo, cfg.Analytics.Retention, cfg.Analytics.PruneInterval)
	retentionScheduler.Start()
	defer retentionScheduler.Stop()

	h := handler.NewHandler(userService, linkService, analyticsService, tokens, postgresRepo, redisRepo)

	rateLimiter := middleware.NewRateLimiter(redisRepo.Client(), &cfg.RateLimit)
	requireAuth := middleware.RequireAuth(tokens)

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered: path=%s err=%v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Internal server error",
		})
	}))
	router.Use(gin.Logger())

	// ClientIP() feeds the visitor dedup rule; behind a proxy it must not be
	// spoofable, so only these sources are trusted.
	router.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.HealthDetailed)

	SetupSwagger(router, &cfg.Auth)

	// Public surface; the tracking endpoints carry the rate limiter.
	router.GET("/r/:code", rateLimiter.Middleware(), h.RedirectByCode)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/forgot-password", h.ForgotPassword)
			auth.POST("/reset-password", h.ResetPassword)
			auth.GET("/me", requireAuth, h.Me)
		}

		users := api.Group("/users")
		{
			users.GET("/:username", rateLimiter.Middleware(), h.PublicProfile)
			users.PUT("/profile", requireAuth, h.UpdateProfile)
			users.PUT("/settings", requireAuth, h.UpdateSettings)
			users.DELETE("/account", requireAuth, h.DeleteAccount)
		}

		links := api.Group("/links")
		{
			links.GET("/redirect/:id", rateLimiter.Middleware(), h.RedirectByID)
			links.GET("", requireAuth, h.ListLinks)
			links.POST("", requireAuth, h.CreateLink)
			links.PUT("/reorder", requireAuth, h.ReorderLinks)
			links.PUT("/:id", requireAuth, h.UpdateLink)
			links.DELETE("/:id", requireAuth, h.DeleteLink)
		}

		analytics := api.Group("/analytics", requireAuth)
		{
			analytics.GET("", h.UserAnalytics)
			analytics.GET("/link/:linkId", h.LinkAnalytics)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

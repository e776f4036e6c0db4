package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/hakwonplus/academy-api/internal/ai"
	"github.com/hakwonplus/academy-api/internal/config"
	"github.com/hakwonplus/academy-api/internal/handler"
	"github.com/hakwonplus/academy-api/internal/middleware"
	"github.com/hakwonplus/academy-api/internal/quota"
	"github.com/hakwonplus/academy-api/internal/repository"
	"github.com/hakwonplus/academy-api/internal/service"
	"github.com/hakwonplus/academy-api/internal/storage"
)

type Server struct {
	router      *gin.Engine
	config      *config.Config
	redis       *storage.RedisClient
	postgres    *storage.Postgres
	usageLogger *service.UsageLogger
	cron        *cron.Cron
	httpServer  *http.Server

	authHandler       *handler.AuthHandler
	limitationHandler *handler.LimitationHandler
	featureHandler    *handler.FeatureHandler
	studentHandler    *handler.StudentHandler
}

func New(cfg *config.Config, postgres *storage.Postgres, redis *storage.RedisClient) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Repositories
	userRepo := repository.NewUserRepository(postgres)
	limitationRepo := repository.NewLimitationRepository(postgres)
	usageRepo := repository.NewUsageLogRepository(postgres)

	// Quota engine over the limitation store
	engine := quota.NewEngine(limitationRepo, quota.WithFailOpen(cfg.Quota.FailOpen))

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	tenantService := service.NewTenantService(userRepo, redis)
	limitationService := service.NewLimitationService(limitationRepo, usageRepo)
	studentService := service.NewStudentService(userRepo, limitationRepo)
	usageLogger := service.NewUsageLogger(usageRepo, cfg.UsageLogs.BufferSize)

	generator := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	s := &Server{
		router:            router,
		config:            cfg,
		redis:             redis,
		postgres:          postgres,
		usageLogger:       usageLogger,
		authHandler:       handler.NewAuthHandler(authService),
		limitationHandler: handler.NewLimitationHandler(limitationService),
		featureHandler:    handler.NewFeatureHandler(engine, tenantService, generator, usageLogger),
		studentHandler:    handler.NewStudentHandler(studentService),
	}

	s.setupMiddleware()
	s.setupRoutes(authService)
	s.setupJobs()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
}

func (s *Server) setupRoutes(authService *service.AuthService) {
	s.router.GET("/health", s.healthCheck)

	auth := s.router.Group("/api/auth")
	auth.Use(middleware.LoginRateLimit(s.redis, 10, time.Minute))
	{
		auth.POST("/register", s.authHandler.Register)
		auth.POST("/login", s.authHandler.Login)
	}

	api := s.router.Group("/api")
	api.Use(middleware.RequireAuth(authService))
	{
		students := api.Group("/students")
		{
			students.POST("", s.studentHandler.Create)
			students.GET("", s.studentHandler.List)
			students.POST("/generate-similar-problems", s.featureHandler.GenerateSimilarProblems)
			students.POST("/analysis", s.featureHandler.AnalyzeWeakConcepts)
			students.POST("/competency", s.featureHandler.AnalyzeCompetency)
		}

		api.POST("/homework/grade", s.featureHandler.GradeHomework)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole("ADMIN"))
		{
			admin.GET("/director-limitations", s.limitationHandler.Get)
			admin.POST("/director-limitations", s.limitationHandler.Update)
			admin.GET("/director-limitations/:directorId/usage", s.limitationHandler.Usage)
		}
	}
}

func (s *Server) setupJobs() {
	s.cron = cron.New()

	retention := time.Duration(s.config.UsageLogs.RetentionDays) * 24 * time.Hour
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.usageLogger.PurgeOld(ctx, retention)
	})
	if err != nil {
		log.Printf("Failed to schedule usage log purge: %v", err)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	redisHealthy := true
	if err := s.redis.Ping(c.Request.Context()); err != nil {
		redisHealthy = false
		log.Printf("Redis health check failed: %v", err)
	}

	dbHealthy := true
	if err := s.postgres.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	status := "healthy"
	statusCode := http.StatusOK

	if !redisHealthy || !dbHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "academy-api",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"redis":    redisHealthy,
			"database": dbHealthy,
		},
	})
}

func (s *Server) Run(addr string) error {
	s.usageLogger.Start()
	s.cron.Start()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting academy API on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if s.cron != nil {
		s.cron.Stop()
	}
	s.usageLogger.Stop()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

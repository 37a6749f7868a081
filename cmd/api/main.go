package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/openlearn/lms-extension-api/api/swagger"
	"github.com/openlearn/lms-extension-api/internal/handler"
	"github.com/openlearn/lms-extension-api/internal/middleware"
	"github.com/openlearn/lms-extension-api/internal/repository"
	"github.com/openlearn/lms-extension-api/internal/service"
	"github.com/openlearn/lms-extension-api/pkg/cache"
	"github.com/openlearn/lms-extension-api/pkg/config"
	"github.com/openlearn/lms-extension-api/pkg/database"
	"github.com/openlearn/lms-extension-api/pkg/export"
	"github.com/openlearn/lms-extension-api/pkg/logger"
	corsmiddleware "github.com/openlearn/lms-extension-api/pkg/middleware/cors"
	reqidmiddleware "github.com/openlearn/lms-extension-api/pkg/middleware/requestid"
)

// @title LMS Extension API
// @version 1.0.0
// @description Course catalog, proctored exam metadata, enrollment management and grade retrieval
// @BasePath /api/extended
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, true)
	}

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	examRepo := repository.NewExamRepository(db)
	userRepo := repository.NewUserRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	embargoRepo := repository.NewEmbargoRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, examRepo, logr)
	bulkSvc := service.NewBulkEnrollmentService(enrollmentRepo, userRepo, courseRepo, embargoRepo, preferenceRepo, logr)
	courseSvc := service.NewCourseService(courseRepo, examRepo, cacheSvc, cfg.Catalog.PageSize, logr)
	gradeSvc := service.NewGradeService(gradeRepo, userRepo, courseRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, cfg.BaseURL)
	bulkHandler := handler.NewBulkEnrollmentHandler(bulkSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.APIKey(cfg.APIKey.Key))
	api.Use(middleware.OptionalJWT(authSvc))
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/courses", courseHandler.List)
		api.GET("/courses/proctored", courseHandler.Proctored)
		api.GET("/libraries", courseHandler.Libraries)

		api.GET("/enrollment", enrollmentHandler.List)
		api.GET("/user_proctored_exams/:username", enrollmentHandler.ProctoredExams)
		api.POST("/paid_mass_enrollment", bulkHandler.Enroll)

		api.GET("/grades/:course_id/:username", gradeHandler.UserGrade)
		api.GET("/grade_reports/:course_id", gradeHandler.ExportReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

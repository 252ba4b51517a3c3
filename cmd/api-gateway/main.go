package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edulog-api/api/swagger"
	"github.com/noah-isme/edulog-api/internal/handler"
	"github.com/noah-isme/edulog-api/internal/middleware"
	"github.com/noah-isme/edulog-api/internal/models"
	"github.com/noah-isme/edulog-api/internal/repository"
	"github.com/noah-isme/edulog-api/internal/service"
	rediscache "github.com/noah-isme/edulog-api/pkg/cache"
	"github.com/noah-isme/edulog-api/pkg/config"
	"github.com/noah-isme/edulog-api/pkg/database"
	"github.com/noah-isme/edulog-api/pkg/jobs"
	"github.com/noah-isme/edulog-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edulog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edulog-api/pkg/middleware/requestid"
	"github.com/noah-isme/edulog-api/pkg/storage"
)

// @title Edulog API
// @version 1.0.0
// @description Study log and learning analytics backend
// @BasePath /api/v1
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

	redisClient, err := rediscache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	studyRepo := repository.NewStudyLogRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "edulog-api",
	})

	statsSvc := service.NewLearningStatsService(studyRepo, userRepo, cacheSvc, metrics, cfg.Stats.CacheTTL, logr)
	studyLogSvc := service.NewStudyLogService(studyRepo, subjectRepo, cacheSvc, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, subjectRepo, validate, logr)
	progressSvc := service.NewProgressService(progressRepo, assignmentRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, logr)
	studentSvc := service.NewStudentService(userRepo, validate, logr)

	ctx := context.Background()

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(statsSvc, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr)

		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportSvc := service.NewReportService(reportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
		reportHandler = handler.NewReportHandler(reportSvc)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	studyLogHandler := handler.NewStudyLogHandler(studyLogSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	progressHandler := handler.NewProgressHandler(progressSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	authSession := api.Group("/auth")
	authSession.Use(middleware.JWT(authSvc))
	authSession.POST("/logout", authHandler.Logout)
	authSession.POST("/change-password", authHandler.ChangePassword)
	authSession.GET("/me", authHandler.Me)

	// Signed download links carry their own authorization.
	if reportHandler != nil {
		api.GET("/export/:token", reportHandler.Download)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/study-logs", studyLogHandler.AddStudyLog)
	authed.POST("/study-time/start", studyLogHandler.StartStudyTime)
	authed.POST("/study-time/end", studyLogHandler.EndStudyTime)
	authed.POST("/self-evaluations", studyLogHandler.AddSelfEvaluation)

	authed.GET("/students/:id/stats", middleware.RBAC(string(models.RoleAdmin), "SELF"), statsHandler.StudentStats)
	authed.GET("/students/:id/progress", middleware.RBAC(string(models.RoleAdmin), "SELF"), progressHandler.ListByStudent)

	authed.GET("/subjects", subjectHandler.List)
	authed.GET("/subjects/:id", subjectHandler.Get)
	authed.GET("/assignments", assignmentHandler.List)
	authed.GET("/assignments/:id", assignmentHandler.Get)
	authed.GET("/announcements", announcementHandler.List)
	authed.GET("/announcements/:id", announcementHandler.Get)

	authed.POST("/progress", progressHandler.Submit)
	authed.GET("/progress", progressHandler.ListMine)

	if reportHandler != nil {
		authed.POST("/reports", reportHandler.Create)
		authed.GET("/reports/:id", reportHandler.Status)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/subjects", subjectHandler.Create)
	admin.PUT("/subjects/:id", subjectHandler.Update)
	admin.DELETE("/subjects/:id", subjectHandler.Delete)

	admin.POST("/assignments", assignmentHandler.Create)
	admin.PUT("/assignments/:id", assignmentHandler.Update)
	admin.DELETE("/assignments/:id", assignmentHandler.Delete)
	admin.GET("/assignments/:id/progress", progressHandler.ListByAssignment)
	admin.PUT("/progress/:id/grade", progressHandler.Grade)

	admin.POST("/announcements", announcementHandler.Create)
	admin.PUT("/announcements/:id", announcementHandler.Update)
	admin.DELETE("/announcements/:id", announcementHandler.Delete)

	admin.GET("/students", studentHandler.List)
	admin.GET("/students/:id", studentHandler.Get)
	admin.POST("/students", middleware.Audit(userRepo, "create", "student"), studentHandler.Create)
	admin.PUT("/students/:id", middleware.Audit(userRepo, "update", "student"), studentHandler.Update)
	admin.DELETE("/students/:id", middleware.Audit(userRepo, "delete", "student"), studentHandler.Delete)

	admin.GET("/admin/students/:id/stats", statsHandler.AdminStudentStats)
	admin.GET("/admin/stats/overall", statsHandler.OverallStats)
	admin.GET("/admin/stats/system", metricsHandler.System)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

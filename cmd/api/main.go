package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/database"
	"github.com/academic-tracker/backend/internal/handlers"
	"github.com/academic-tracker/backend/internal/logging"
	"github.com/academic-tracker/backend/internal/middleware"
	"github.com/academic-tracker/backend/internal/scheduler"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title Academic Tracker API
// @version 1.0
// @description Semesters, modules, grades, GPA and study time for university students
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger := logging.New(logging.LevelFor(cfg.Server.Env, cfg.Server.LogLevel))

	if len(os.Args) > 1 {
		if err := handleCommand(os.Args[1], cfg, logger); err != nil {
			level.Error(logger).Log("msg", "command failed", "cmd", os.Args[1], "err", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		level.Error(logger).Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger gokitlog.Logger) error {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.SetupValidation()

	app := newApp(db, cfg, logger)

	maintenance := scheduler.New(app.maintenance, cfg.Maintenance.Interval, gokitlog.With(logger, "component", "scheduler"))
	if err := maintenance.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer maintenance.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           app.router(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "server starting", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		level.Info(logger).Log("msg", "shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// app holds the services and handlers shared by the router and the commands
type app struct {
	auth        *services.AuthService
	audit       *services.AuditService
	users       *services.UserService
	semesters   *services.SemesterService
	modules     *services.ModuleService
	gpa         *services.GpaService
	sessions    *services.StudySessionService
	maintenance *services.MaintenanceService
}

func newApp(db *gorm.DB, cfg *config.Config, logger gokitlog.Logger) *app {
	auth := services.NewAuthService(db, cfg)
	audit := services.NewAuditService(db)
	return &app{
		auth:        auth,
		audit:       audit,
		users:       services.NewUserService(db),
		semesters:   services.NewSemesterService(db),
		modules:     services.NewModuleService(db),
		gpa:         services.NewGpaService(db),
		sessions:    services.NewStudySessionService(db),
		maintenance: services.NewMaintenanceService(auth, audit, cfg.Maintenance.AuditRetention, gokitlog.With(logger, "component", "maintenance")),
	}
}

func (a *app) router(cfg *config.Config, logger gokitlog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(gokitlog.With(logger, "component", "http")))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "academic-tracker-api"})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Academic Tracker API", "status": "running"})
	})

	if cfg.Monitoring.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := handlers.NewAuthHandler(a.auth, a.audit)
	profileHandler := handlers.NewProfileHandler(a.users, a.audit)
	semesterHandler := handlers.NewSemesterHandler(a.semesters, a.audit)
	moduleHandler := handlers.NewModuleHandler(a.modules, a.audit)
	gpaHandler := handlers.NewGpaHandler(a.gpa, a.users)
	sessionHandler := handlers.NewStudySessionHandler(a.sessions)
	userHandler := handlers.NewUserHandler(a.users, a.audit)
	auditHandler := handlers.NewAuditHandler(a.audit)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(a.auth))
		protected.Use(middleware.RequireActiveUser(a.users))
		{
			protected.GET("/profile", profileHandler.Get)
			protected.PUT("/profile", profileHandler.Update)

			protected.GET("/semesters", semesterHandler.List)
			protected.POST("/semesters", semesterHandler.Create)
			protected.GET("/semesters/current", semesterHandler.Current)
			protected.PUT("/semesters/:id", semesterHandler.Update)
			protected.DELETE("/semesters/:id", semesterHandler.Delete)

			protected.GET("/modules", moduleHandler.List)
			protected.POST("/modules", moduleHandler.Create)
			protected.GET("/modules/current-semester", moduleHandler.ListCurrentSemester)
			protected.GET("/modules/:id", moduleHandler.Get)
			protected.PUT("/modules/:id", moduleHandler.Update)
			protected.DELETE("/modules/:id", moduleHandler.Delete)

			protected.GET("/grades/overview", gpaHandler.Overview)
			protected.GET("/grades/sgpa", gpaHandler.SemesterSGPA)
			protected.GET("/grades/cgpa", gpaHandler.CGPA)
			protected.GET("/grades/transcript.xlsx", gpaHandler.Transcript)

			protected.POST("/study-sessions", sessionHandler.Record)
			protected.GET("/study-sessions", sessionHandler.List)
			protected.DELETE("/study-sessions/:id", sessionHandler.Delete)
			protected.GET("/study-sessions/today-summary", sessionHandler.TodaySummary)
			protected.GET("/study-sessions/by-day", sessionHandler.ByDay)
			protected.GET("/study-sessions/heatmap", sessionHandler.Heatmap)
			protected.GET("/study-sessions/weekly", sessionHandler.Weekly)

			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.Get)
				admin.PUT("/users/:id/active", userHandler.SetActive)
				admin.GET("/audit/recent", auditHandler.GetRecentActivity)
			}
		}
	}

	return r
}

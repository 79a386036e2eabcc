package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harune/tenant-tracker/internal/config"
	"github.com/harune/tenant-tracker/internal/database"
	"github.com/harune/tenant-tracker/internal/handlers"
	"github.com/harune/tenant-tracker/internal/logger"
	"github.com/harune/tenant-tracker/internal/middleware"
	"github.com/harune/tenant-tracker/internal/quota"
	"github.com/harune/tenant-tracker/internal/repository"
	"github.com/harune/tenant-tracker/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)
	logger.Init(cfg)
	defer logger.L().Sync()

	if err := database.Connect(cfg); err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.SeedSuperAdmin(cfg); err != nil {
		logger.L().Fatal("failed to seed super admin", zap.Error(err))
	}

	router := setupRouter(cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.L().Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("forced shutdown", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.L().Error("failed to close database", zap.Error(err))
	}

	logger.L().Info("server stopped")
}

func setupRouter(cfg *config.Config) *gin.Engine {
	db := database.GetDB()

	guard := quota.NewGuard()
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, tenantRepo, cfg.JWTSecret, cfg.TokenTTL)
	tenantService := services.NewTenantService(tenantRepo)
	userService := services.NewUserService(userRepo, tenantRepo, guard)
	projectService := services.NewProjectService(projectRepo, guard)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(cfg.JWTSecret), authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			protected.GET("/tenants", tenantHandler.List)
			protected.GET("/tenants/:id", tenantHandler.Get)
			protected.PUT("/tenants/:id", tenantHandler.Update)
			protected.POST("/tenants/:id/users", userHandler.Create)
			protected.GET("/tenants/:id/users", userHandler.List)

			protected.PUT("/users/:id", userHandler.Update)
			protected.DELETE("/users/:id", userHandler.Delete)

			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.Get)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.POST("/projects/:id/tasks", taskHandler.Create)
			protected.GET("/projects/:id/tasks", taskHandler.List)

			protected.GET("/tasks/:id", taskHandler.Get)
			protected.PUT("/tasks/:id", taskHandler.Update)
			protected.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
			protected.DELETE("/tasks/:id", taskHandler.Delete)
		}
	}

	return router
}

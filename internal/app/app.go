package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/auth"
	"github.com/mati-gonz/control-obras-dasco-api/internal/config"
	"github.com/mati-gonz/control-obras-dasco-api/internal/database"
	"github.com/mati-gonz/control-obras-dasco-api/internal/handlers"
	"github.com/mati-gonz/control-obras-dasco-api/internal/logger"
	"github.com/mati-gonz/control-obras-dasco-api/internal/middleware"
	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
	"github.com/mati-gonz/control-obras-dasco-api/internal/repositories"
	"github.com/mati-gonz/control-obras-dasco-api/internal/routes"
	"github.com/mati-gonz/control-obras-dasco-api/internal/services"
	"github.com/mati-gonz/control-obras-dasco-api/internal/storage"
	"github.com/mati-gonz/control-obras-dasco-api/internal/transcode"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected")

	if err := seedFirstAdmin(db); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	router := SetupRouter(cfg, db)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires storage, services and handlers onto a gin engine. The
// object store client is constructed here and injected; nothing in the
// request path reaches for a global client.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	store, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		BaseURL:   cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		time.Duration(cfg.JWT.TTLMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshDays)*24*time.Hour,
	)
	authMW := middleware.AuthMiddleware(tokens)

	transcoder := transcode.New(
		cfg.Upload.CompressThreshold,
		cfg.Upload.ImageMaxDimension,
		cfg.Upload.ImageQuality,
	)

	userRepo := repositories.NewUserRepository(db)
	workRepo := repositories.NewWorkRepository(db)
	subgroupRepo := repositories.NewSubgroupRepository(db)
	partRepo := repositories.NewPartRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)

	userService := services.NewUserService(userRepo, workRepo, tokens)
	workService := services.NewWorkService(workRepo)
	subgroupService := services.NewSubgroupService(subgroupRepo, workRepo)
	partService := services.NewPartService(partRepo, workRepo, subgroupRepo)
	expenseService := services.NewExpenseService(
		expenseRepo, partRepo, workRepo,
		transcoder, store,
		time.Duration(cfg.Upload.SignedURLTTL)*time.Second,
	)

	appHandlers := &handlers.AppHandlers{
		UserHandler:     handlers.NewUserHandler(userService, authMW),
		WorkHandler:     handlers.NewWorkHandler(workService, authMW),
		SubgroupHandler: handlers.NewSubgroupHandler(subgroupService, authMW),
		PartHandler:     handlers.NewPartHandler(partService, authMW),
		ExpenseHandler:  handlers.NewExpenseHandler(expenseService, authMW, cfg.Upload.MaxSize),
	}

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	// Requests over the upload ceiling are rejected by gin before the
	// multipart body is buffered.
	router.MaxMultipartMemory = cfg.Upload.MaxSize

	routes.RegisterRoutes(router, appHandlers)
	return router
}

// seedFirstAdmin guarantees at least one admin account exists so the
// admin-only /users/register endpoint is reachable on a fresh database.
func seedFirstAdmin(db *gorm.DB) error {
	var admin models.User
	err := db.Where("role = ?", models.UserRoleAdmin).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("No admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are unset; skipping seed")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	seed := &models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hashed,
		Role:     models.UserRoleAdmin,
	}
	if err := db.Create(seed).Error; err != nil {
		return err
	}
	logger.Info("Seeded first admin user", "email", email)
	return nil
}

// Package main provides the main entry point for the Carlytics vehicle valuation service
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lilacbtch/carlytics/app/handlers"
	"github.com/lilacbtch/carlytics/app/middleware"
	"github.com/lilacbtch/carlytics/app/router"
	"github.com/lilacbtch/carlytics/app/services"
	businessflow "github.com/lilacbtch/carlytics/business_flow"
	"github.com/lilacbtch/carlytics/config"
	_ "github.com/lilacbtch/carlytics/docs"
	"github.com/lilacbtch/carlytics/models"
	"github.com/lilacbtch/carlytics/pricing"
	"github.com/lilacbtch/carlytics/repository"
	"github.com/lilacbtch/carlytics/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

// @title Carlytics API
// @version 1.0
// @description Vehicle valuation service for the Turkish market
// @host api.carlytics.app
// @BasePath /api/v1
// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
func main() {
	log.Println("Starting Carlytics application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through lumberjack when file
// output is configured, so logs rotate without an external logrotate.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotating))
	} else {
		log.SetOutput(rotating)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startSessionCleanup periodically deletes expired sessions
func startSessionCleanup(parent context.Context, sessionRepo repository.UserSessionRepository, interval time.Duration) func() {
	cleanupCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 30*time.Second)
				if n, err := sessionRepo.DeleteExpired(ctx); err != nil {
					log.Printf("Session cleanup failed: %v", err)
				} else if n > 0 {
					log.Printf("Session cleanup removed %d expired sessions", n)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Seed the vehicle catalog on first boot
	if err := ensureCatalogSeed(db); err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	trendRepo := repository.NewPriceTrendRepository(db)
	savedRepo := repository.NewSavedVehicleRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	stopCleanup := startSessionCleanup(context.Background(), sessionRepo, cfg.Security.SessionCleanupInterval)
	stopFuncs = append(stopFuncs, stopCleanup)

	// Initialize external service clients
	sessionProvider := services.NewSessionProviderClient(cfg.AuthProvider.BaseURL, cfg.AuthProvider.Timeout)
	ocrClient := services.NewOCRClient(cfg.OCR.BaseURL, cfg.OCR.APIKey, cfg.OCR.Timeout)

	// Initialize the pricing engine from configuration
	engine := pricing.NewEngine(pricing.Config{
		CurrentYear:       cfg.Valuation.CurrentYear,
		AnnualDistanceKm:  cfg.Valuation.AnnualDistanceKm,
		MileageBracketKm:  cfg.Valuation.MileageBracketKm,
		BracketPenalty:    cfg.Valuation.BracketPenalty,
		MaxDepreciation:   cfg.Valuation.MaxDepreciation,
		MaxMileagePenalty: cfg.Valuation.MaxMileagePenalty,
		ValueFloor:        cfg.Valuation.ValueFloor,
	})

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(userRepo, sessionRepo, auditRepo, sessionProvider, db)
	vehicleFlow := businessflow.NewVehicleFlow(vehicleRepo, trendRepo, auditRepo, engine, rc, cfg.Cache.DefaultTTL)
	savedVehicleFlow := businessflow.NewSavedVehicleFlow(savedRepo, vehicleRepo, auditRepo, db)
	ocrFlow := businessflow.NewOCRFlow(ocrClient, auditRepo, cfg.OCR.MaxImageSize)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authFlow)
	vehicleHandler := handlers.NewVehicleHandler(vehicleFlow)
	savedVehicleHandler := handlers.NewSavedVehicleHandler(savedVehicleFlow)
	ocrHandler := handlers.NewOCRHandler(ocrFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(sessionRepo)

	// Initialize router
	appRouter := router.NewFiberRouter(
		authHandler,
		vehicleHandler,
		savedVehicleHandler,
		ocrHandler,
		authMiddleware,
		cfg.Security.AllowedOrigins,
	)

	application := &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

type seedVehicle struct {
	Brand          string
	Model          string
	Year           int
	BasePrice      float64
	AverageMileage int
	Category       string
}

// Turkish market popular vehicles with realistic 2024-2025 pricing in TRY
var catalogSeed = []seedVehicle{
	// Volkswagen
	{"Volkswagen", "Golf", 2024, 1250000, 5000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Golf", 2023, 1100000, 15000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Golf", 2022, 950000, 30000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Passat", 2024, 1850000, 8000, models.VehicleCategorySedan},
	{"Volkswagen", "Passat", 2023, 1650000, 20000, models.VehicleCategorySedan},
	{"Volkswagen", "Passat", 2021, 1300000, 45000, models.VehicleCategorySedan},
	{"Volkswagen", "Polo", 2024, 950000, 3000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Polo", 2023, 850000, 12000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Polo", 2022, 720000, 25000, models.VehicleCategoryHatchback},
	{"Volkswagen", "Tiguan", 2024, 2100000, 6000, models.VehicleCategorySUV},

	// Renault
	{"Renault", "Megane", 2024, 1100000, 4000, models.VehicleCategorySedan},
	{"Renault", "Megane", 2023, 980000, 18000, models.VehicleCategorySedan},
	{"Renault", "Megane", 2022, 850000, 32000, models.VehicleCategorySedan},
	{"Renault", "Clio", 2024, 850000, 2000, models.VehicleCategoryHatchback},
	{"Renault", "Clio", 2023, 750000, 15000, models.VehicleCategoryHatchback},
	{"Renault", "Clio", 2022, 650000, 28000, models.VehicleCategoryHatchback},
	{"Renault", "Clio", 2021, 550000, 42000, models.VehicleCategoryHatchback},
	{"Renault", "Taliant", 2024, 920000, 5000, models.VehicleCategorySedan},
	{"Renault", "Austral", 2024, 1650000, 7000, models.VehicleCategorySUV},

	// Honda
	{"Honda", "Civic", 2024, 1450000, 6000, models.VehicleCategorySedan},
	{"Honda", "Civic", 2023, 1300000, 19000, models.VehicleCategorySedan},
	{"Honda", "Civic", 2022, 1150000, 34000, models.VehicleCategorySedan},
	{"Honda", "Civic", 2021, 980000, 48000, models.VehicleCategorySedan},
	{"Honda", "Accord", 2024, 1850000, 8000, models.VehicleCategorySedan},
	{"Honda", "Accord", 2023, 1650000, 22000, models.VehicleCategorySedan},
	{"Honda", "CR-V", 2024, 2050000, 7000, models.VehicleCategorySUV},
	{"Honda", "CR-V", 2023, 1850000, 21000, models.VehicleCategorySUV},
	{"Honda", "HR-V", 2024, 1550000, 5000, models.VehicleCategorySUV},

	// Toyota
	{"Toyota", "Corolla", 2024, 1350000, 5000, models.VehicleCategorySedan},
	{"Toyota", "Corolla", 2023, 1200000, 18000, models.VehicleCategorySedan},
	{"Toyota", "Corolla", 2022, 1050000, 33000, models.VehicleCategorySedan},
	{"Toyota", "Corolla", 2021, 900000, 47000, models.VehicleCategorySedan},
	{"Toyota", "Yaris", 2024, 950000, 3000, models.VehicleCategoryHatchback},
	{"Toyota", "Yaris", 2023, 850000, 16000, models.VehicleCategoryHatchback},
	{"Toyota", "Yaris", 2022, 750000, 30000, models.VehicleCategoryHatchback},
	{"Toyota", "C-HR", 2024, 1650000, 6000, models.VehicleCategorySUV},
	{"Toyota", "C-HR", 2023, 1480000, 20000, models.VehicleCategorySUV},
	{"Toyota", "RAV4", 2024, 2250000, 7000, models.VehicleCategorySUV},
	{"Toyota", "RAV4", 2023, 2000000, 22000, models.VehicleCategorySUV},

	// Additional models for variety
	{"Volkswagen", "T-Roc", 2024, 1750000, 5000, models.VehicleCategorySUV},
	{"Renault", "Kadjar", 2023, 1350000, 23000, models.VehicleCategorySUV},
	{"Honda", "Jazz", 2023, 950000, 17000, models.VehicleCategoryHatchback},
	{"Toyota", "Camry", 2024, 2100000, 9000, models.VehicleCategorySedan},
	{"Volkswagen", "Golf", 2021, 780000, 52000, models.VehicleCategoryHatchback},
	{"Renault", "Megane", 2021, 720000, 48000, models.VehicleCategorySedan},
	{"Honda", "Civic", 2020, 850000, 65000, models.VehicleCategorySedan},
	{"Toyota", "Corolla", 2020, 780000, 62000, models.VehicleCategorySedan},
}

// ensureCatalogSeed populates the vehicle catalog and price history on an
// empty database. A non-empty catalog is left untouched.
func ensureCatalogSeed(db *gorm.DB) error {
	vehicleRepo := repository.NewVehicleRepository(db)
	trendRepo := repository.NewPriceTrendRepository(db)

	ctx := context.Background()

	count, err := vehicleRepo.Count(ctx, models.VehicleFilter{})
	if err != nil {
		return fmt.Errorf("failed to count vehicles: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := utils.UTCNow()

	vehicles := make([]*models.Vehicle, 0, len(catalogSeed))
	for _, s := range catalogSeed {
		vehicles = append(vehicles, &models.Vehicle{
			VehicleID:      utils.NewPublicID("veh"),
			Brand:          s.Brand,
			Model:          s.Model,
			Year:           s.Year,
			BasePrice:      s.BasePrice,
			AverageMileage: s.AverageMileage,
			Category:       s.Category,
			CreatedAt:      now,
		})
	}

	if err := vehicleRepo.SaveBatch(ctx, vehicles); err != nil {
		return fmt.Errorf("failed to seed vehicles: %w", err)
	}

	// 12 months of price history for the first ten catalog entries
	trends := make([]*models.PriceTrend, 0, 10)
	for _, v := range vehicles[:10] {
		points := make([]models.PricePoint, 0, 12)
		for i := 0; i < 12; i++ {
			monthsAgo := 12 - i
			points = append(points, models.PricePoint{
				Date:    now.AddDate(0, 0, -monthsAgo*30),
				Price:   round2(v.BasePrice * (0.9 + float64(i)*0.01)),
				Mileage: v.AverageMileage - monthsAgo*1000,
			})
		}

		history, err := json.Marshal(points)
		if err != nil {
			return fmt.Errorf("failed to marshal price history: %w", err)
		}

		trends = append(trends, &models.PriceTrend{
			VehicleID:    v.VehicleID,
			Brand:        v.Brand,
			Model:        v.Model,
			Year:         v.Year,
			PriceHistory: history,
			UpdatedAt:    now,
		})
	}

	if err := trendRepo.SaveBatch(ctx, trends); err != nil {
		return fmt.Errorf("failed to seed price trends: %w", err)
	}

	log.Printf("Catalog seeded with %d vehicles and %d price trend series", len(vehicles), len(trends))
	return nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

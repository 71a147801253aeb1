package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"helpdesk/application/blacklist"
	"helpdesk/application/health"
	"helpdesk/application/settings"
	"helpdesk/application/tickets"
	"helpdesk/application/transcripts"
	"helpdesk/common"
	"helpdesk/internal/transcript"
	"helpdesk/middleware"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}

	db, err := setupDatabase()
	if err != nil {
		log.Fatal("Failed to setup database:", err)
	}

	z := NewLogger()
	defer z.Sync()

	r := SetupRouter(db, z)

	addr := os.Getenv("HELPDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  55 * time.Second,
		WriteTimeout: 55 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func NewLogger() *zap.Logger {
	var zapLogger *zap.Logger
	var err error

	if os.Getenv("HELPDESK_ENV") == "production" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}

	if err != nil {
		panic(err)
	}

	return zapLogger
}

// setupDatabase opens MySQL when the HELPDESK_DB_* variables are all set,
// otherwise a local sqlite file.
func setupDatabase() (*gorm.DB, error) {
	host := os.Getenv("HELPDESK_DB_HOST")
	port := os.Getenv("HELPDESK_DB_PORT")
	user := os.Getenv("HELPDESK_DB_USER")
	pass := os.Getenv("HELPDESK_DB_PASS")
	dbname := os.Getenv("HELPDESK_DB_NAME")

	var db *gorm.DB
	var err error

	if host != "" && port != "" && user != "" && pass != "" && dbname != "" {
		log.Println("🗄️  Connecting to MySQL...")
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, pass, host, port, dbname)
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		path := os.Getenv("HELPDESK_DB_PATH")
		if path == "" {
			path = filepath.Join("data", "tickets.db")
		}
		log.Printf("📦 Opening sqlite database at %s...", path)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&common.Ticket{},
		&common.TicketMessage{},
		&common.GuildSettings{},
		&common.BlacklistEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("✅ Database ready")
	return db, nil
}

func SetupRouter(db *gorm.DB, z *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit())

	healthRepo := health.NewRepository(db)
	healthSvc := health.NewService(healthRepo)
	healthHandler := health.NewHandler(healthSvc)

	settingsRepo := settings.NewRepository(db)
	settingsSvc := settings.NewService(settingsRepo, z)
	settingsHandler := settings.NewHandler(settingsSvc)

	blacklistRepo := blacklist.NewRepository(db)
	blacklistSvc := blacklist.NewService(blacklistRepo, z)
	blacklistHandler := blacklist.NewHandler(blacklistSvc)

	ticketsRepo := tickets.NewRepository(db)
	ticketsSvc := tickets.NewService(ticketsRepo, settingsSvc, blacklistSvc, z)
	ticketsHandler := tickets.NewHandler(ticketsSvc)

	renderer := transcript.NewRenderer(transcript.DefaultConfig())
	transcriptsRepo := transcripts.NewRepository(db)
	transcriptsSvc := transcripts.NewService(transcriptsRepo, ticketsSvc, renderer, z)
	transcriptsHandler := transcripts.NewHandler(transcriptsSvc)

	api := r.Group("")
	healthHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)
	blacklistHandler.RegisterRoutes(api)
	ticketsHandler.RegisterRoutes(api)
	transcriptsHandler.RegisterRoutes(api)

	return r
}

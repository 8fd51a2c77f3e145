package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/api"
	"github.com/galkoren/pve-pipeline-ops/internal/config"
	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/internal/secrets"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/galkoren/pve-pipeline-ops/docs"
)

// version is the single source for the service version; the swagger
// annotation below must be kept in step with it.
const version = "0.1.0"

// @title PVE Pipeline Ops API
// @version 0.1.0
// @description A thin service for driving Proxmox VE VM lifecycle, snapshot and host power operations from automation pipelines
// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	// Parse command line flags
	var configFile string
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger based on configuration
	log := setupLogger(cfg.Logging)
	log.Info("Starting PVE Pipeline Ops service...")
	log.WithField("config_file", configFile).Debug("Configuration loaded")

	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build the credential provider
	tokens, err := secrets.FromConfig(cfg.Proxmox.Credential)
	if err != nil {
		log.Fatalf("Failed to build credential provider: %v", err)
	}

	// Resolve the ambient node connection
	conn, err := proxmox.ResolveConnection(nil, cfg.Proxmox)
	if err != nil {
		log.Fatalf("Failed to resolve Proxmox connection: %v", err)
	}

	if cfg.Proxmox.InsecureSkipVerify {
		log.Warn("TLS certificate validation is disabled for the Proxmox API")
	}

	// Initialize Proxmox client and services
	client := proxmox.NewClient(conn, tokens, proxmox.ClientOptions{
		RequestTimeout:     cfg.Proxmox.RequestTimeout,
		InsecureSkipVerify: cfg.Proxmox.InsecureSkipVerify,
	}, log)

	vmService := proxmox.NewVMService(client, cfg.Waits, log)
	snapshotService := proxmox.NewSnapshotService(client, cfg.Waits, log)
	hostService := proxmox.NewHostService(client, log)

	// Probe the node at startup; a failure is not fatal, requests will
	// surface their own errors.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := hostService.GetStatus(probeCtx); err != nil {
		log.WithError(err).Warn("Failed to reach Proxmox node at startup")
	} else {
		log.WithFields(logrus.Fields{
			"host": conn.Host,
			"node": conn.Node,
		}).Info("Successfully reached Proxmox node")
	}
	probeCancel()

	// Initialize handlers
	vmHandler := api.NewVMHandler(vmService, log)
	snapshotHandler := api.NewSnapshotHandler(snapshotService, log)
	hostHandler := api.NewHostHandler(hostService, log)

	// Setup router
	router := gin.Default()

	// CORS middleware (if enabled)
	if cfg.Server.EnableCORS {
		router.Use(corsMiddleware())
	}

	// Request logging middleware
	router.Use(requestLoggerMiddleware(log))

	// Health check endpoint
	router.GET("/health", healthCheck())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// VM lifecycle routes
		v1.GET("/vms/:id/status", vmHandler.GetStatus)
		v1.GET("/vms/:id/config", vmHandler.GetConfig)
		v1.POST("/vms/:id/start", vmHandler.Start)
		v1.POST("/vms/:id/stop", vmHandler.Stop)
		v1.POST("/vms/:id/shutdown", vmHandler.Shutdown)
		v1.POST("/vms/:id/ensure-running", vmHandler.EnsureRunning)

		// Snapshot routes
		v1.GET("/vms/:id/snapshots", snapshotHandler.List)
		v1.POST("/vms/:id/snapshots", snapshotHandler.Create)
		v1.POST("/vms/:id/snapshots/:name/verify", snapshotHandler.Verify)
		v1.POST("/vms/:id/snapshots/:name/rollback", snapshotHandler.Rollback)
		v1.DELETE("/vms/:id/snapshots/:name", snapshotHandler.Delete)

		// Host power routes
		v1.GET("/host/status", hostHandler.GetStatus)
		v1.POST("/host/shutdown", hostHandler.Shutdown)
		v1.POST("/host/reboot", hostHandler.Reboot)
	}

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create HTTP server with configuration
	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("address", cfg.Server.GetAddress()).Info("Server starting")
		log.Infof("Swagger UI available at: http://%s/swagger/index.html", cfg.Server.GetAddress())

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give the server time to finish handling existing requests; shutdown
	// escalation and snapshot verification can block for minutes.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func setupLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	// Set log format
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// Set output
	switch cfg.Output {
	case "stderr":
		log.SetOutput(os.Stderr)
	case "file":
		if cfg.FilePath != "" {
			file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.FilePath, err)
				log.SetOutput(os.Stdout)
			} else {
				log.SetOutput(file)
			}
		}
	default:
		log.SetOutput(os.Stdout)
	}

	return log
}

// corsMiddleware returns a CORS middleware
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLoggerMiddleware logs HTTP requests
func requestLoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request
		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		entry := log.WithFields(logrus.Fields{
			"status":     statusCode,
			"latency":    latency,
			"client_ip":  clientIP,
			"method":     method,
			"path":       path,
			"user_agent": c.Request.UserAgent(),
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
		} else {
			entry.Info("Request processed")
		}
	}
}

// healthCheck returns a simple health check handler
func healthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "pve-pipeline-ops",
			"version":   version,
		})
	}
}

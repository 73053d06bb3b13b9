package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"detection-service/internal/activity"
	"detection-service/internal/config"
	"detection-service/internal/detector"
	"detection-service/internal/domain"
	"detection-service/internal/handler"
	"detection-service/internal/metrics"
	"detection-service/internal/middleware"
	"detection-service/internal/registry"
	"detection-service/internal/repository"
	"detection-service/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Detection models
	if err := detector.Initialize(cfg.Detector.LibraryPath); err != nil {
		log.Fatalf("initialize onnx runtime: %v", err)
	}
	reg := loadModels(cfg)
	if reg.Len() == 0 {
		log.Error("no models loaded successfully")
	} else {
		log.WithField("active_model", reg.Active()).Info("models loaded successfully")
	}

	// Activity log for the database monitor panel
	activityLog := activity.New(cfg.Activity.Capacity)

	// Detection history store (optional: the service runs without it)
	var detectionRepo domain.DetectionRepository
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool = connectDatabase(cfg)
		if pool != nil {
			defer pool.Close()
			detectionRepo = repository.WithActivityLog(
				repository.NewDetectionRepository(pool), activityLog)
		}
	} else {
		log.Info("database integration disabled")
	}

	m := metrics.New()

	detectUC := usecase.NewDetectUseCase(reg, detectionRepo, m)
	modelUC := usecase.NewModelUseCase(reg, m)
	historyUC := usecase.NewHistoryUseCase(detectionRepo)

	h := handler.New(detectUC, modelUC, historyUC, activityLog)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.CORS(), gin.Recovery())
	h.RegisterRoutes(router)

	router.GET("/", func(c *gin.Context) {
		dbStatus := "disconnected"
		if pool != nil {
			dbStatus = "connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "object detection service is running",
			"database": dbStatus,
		})
	})

	router.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	for _, entry := range reg.Entries() {
		if d, ok := entry.Detector.(*detector.ONNXDetector); ok {
			d.Close()
		}
	}

	log.Info("server stopped")
}

// loadModels builds the registry from whichever configured weight files
// exist on disk. Missing files are logged and skipped.
func loadModels(cfg *config.Config) *registry.Registry {
	opts := detector.Options{
		InputSize:           cfg.Detector.InputSize,
		ConfidenceThreshold: cfg.Detector.ConfidenceThreshold,
		IOUThreshold:        cfg.Detector.IOUThreshold,
		PoolSize:            cfg.Detector.PoolSize,
		AcquireTimeout:      cfg.Detector.AcquireTimeout,
	}

	candidates := []struct {
		name    string
		path    string
		classes []string
	}{
		{"weapon", cfg.Models.WeaponPath, cfg.Models.WeaponClasses},
		{"fire_smoke", cfg.Models.FireSmokePath, cfg.Models.FireSmokeClasses},
	}

	var entries []registry.Entry
	for _, c := range candidates {
		if _, err := os.Stat(c.path); err != nil {
			log.WithField("path", c.path).Warnf("%s model not found", c.name)
			continue
		}
		det, err := detector.NewONNX(c.name, c.path, c.classes, opts)
		if err != nil {
			log.WithError(err).Errorf("load %s model", c.name)
			continue
		}
		log.WithField("path", c.path).Infof("%s model loaded", c.name)
		entries = append(entries, registry.Entry{
			Name:        c.name,
			WeightsPath: c.path,
			Detector:    det,
		})
	}
	return registry.New(entries...)
}

// connectDatabase builds the pgx pool and ensures the schema. Returns
// nil on failure; detection history is then unavailable but the
// service still serves.
func connectDatabase(cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Error("parse db config; running without database")
		return nil
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.WithError(err).Error("create db pool; running without database")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		log.WithError(err).Warn("database unreachable; detections won't be saved")
		pool.Close()
		return nil
	}
	if err := repository.CreateSchema(ctx, pool); err != nil {
		log.WithError(err).Error("create schema; running without database")
		pool.Close()
		return nil
	}

	log.Info("database connection established")
	return pool
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

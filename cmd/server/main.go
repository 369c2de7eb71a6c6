package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comptoir/internal/category"
	"comptoir/internal/commons"
	"comptoir/internal/config"
	"comptoir/internal/customer"
	"comptoir/internal/infrastructure/logger"
	"comptoir/internal/infrastructure/mysql"
	"comptoir/internal/product"
	"comptoir/internal/proforma"
	"comptoir/internal/sale"
	"comptoir/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	productCtrl := product.NewModule(db, zapLogger)
	categoryCtrl := category.NewModule(db, zapLogger)
	customerCtrl := customer.NewModule(db, zapLogger)
	saleCtrl := sale.NewModule(db, cfg, zapLogger)
	proformaCtrl := proforma.NewModule(db, cfg, zapLogger)

	router := server.NewRouter(productCtrl, categoryCtrl, customerCtrl, saleCtrl, proformaCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// loadConfig prefers a yaml file when CONFIG_FILE is set and falls back to
// environment variables.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}

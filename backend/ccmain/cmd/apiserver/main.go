package main

// @title           Cold-Chain Ledger API
// @version         1.0
// @description     疫苗冷链运单账本：运单登记、交接、传感器上报、零售溯源、理赔与报表

// @host      localhost:8080
// @BasePath  /api/v1

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldchain/backend/ccmain/internal/app/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化应用
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	// 3. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("starting http server",
			"addr", addr,
			"ledger", cfg.Ledger.Driver,
			"notify_mode", cfg.Notify.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 5. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		app.Logger.Info("received shutdown signal, gracefully shutting down")
		gracefulShutdown(app, server)
	case err := <-serverErrChan:
		app.Logger.Error("http server error", "error", err)
	}

	app.Logger.Info("application stopped")
}

// gracefulShutdown 优雅停机，等待进行中的请求完成，告警发布由 cleanup 等待
func gracefulShutdown(app *App, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		app.Logger.Error("http server shutdown error", "error", err)
		return
	}
	app.Logger.Info("http server stopped gracefully")
}

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coldchain/backend/ccsync/internal/business"
	"coldchain/backend/ccsync/internal/domains"
	"coldchain/backend/ccsync/internal/domains/common"
	"coldchain/backend/ccsync/internal/worker"
	"coldchain/backend/ccsync/pkg/config"
	"coldchain/backend/ccsync/pkg/infra/redis"
	"coldchain/backend/ccsync/pkg/lmstfy"
	"coldchain/backend/ccsync/pkg/logger"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx := context.Background()
	zapLogger.Infof(ctx, "Config loaded: %s, env: %s, log_level: %s", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// 3. 初始化依赖：lmstfy 消息源 + Redis 通知频道
	source := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		zapLogger.Errorf(ctx, "Failed to connect redis: %v", err)
		os.Exit(1)
	}
	defer func() { _ = pubsub.Close() }()

	deps := &common.Deps{
		AlertService: business.NewAlertService(pubsub, cfg.Notify.Topic, zapLogger),
	}

	// 4. 创建并启动 Manager
	mgr := worker.NewManagerInstance(cfg, source, domains.GetProcess(zapLogger, deps), zapLogger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Start()
	}()

	zapLogger.Infof(ctx, "Worker started, forwarding alerts to %s", cfg.Notify.Topic)

	// 5. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLogger.Infof(ctx, "Received signal: %v, shutting down worker", sig)
		mgr.Shutdown()
		<-errCh
	case err := <-errCh:
		if err != nil {
			zapLogger.Errorf(ctx, "Manager exited: %v", err)
		}
	}

	zapLogger.Infof(ctx, "Worker exited gracefully")
}

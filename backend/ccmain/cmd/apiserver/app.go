package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"coldchain/backend/ccmain/internal/app/config"
	"coldchain/backend/ccmain/internal/app/domains/entity/etrisk"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdalert"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdclaim"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdreport"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdretail"
	"coldchain/backend/ccmain/internal/app/domains/modules/mdshipment"
	"coldchain/backend/ccmain/internal/app/domains/repo/rpledger"
	"coldchain/backend/ccmain/internal/app/domains/services/svclaim"
	"coldchain/backend/ccmain/internal/app/domains/services/svreport"
	"coldchain/backend/ccmain/internal/app/domains/services/svretail"
	"coldchain/backend/ccmain/internal/app/domains/services/svshipment"
	"coldchain/backend/ccmain/internal/app/infra/mq/lmstfy"
	"coldchain/backend/ccmain/internal/app/infra/persistence/redis"
	"coldchain/backend/ccmain/internal/app/pkg/idgen"
	"coldchain/backend/ccmain/internal/app/pkg/logger"
	"coldchain/backend/ccmain/internal/app/pkg/metrics"
	"coldchain/backend/ccmain/internal/app/server/handlers/claim"
	"coldchain/backend/ccmain/internal/app/server/handlers/report"
	"coldchain/backend/ccmain/internal/app/server/handlers/retail"
	"coldchain/backend/ccmain/internal/app/server/handlers/shipment"
	"coldchain/backend/ccmain/internal/app/server/routers"
)

// App 应用实例
type App struct {
	Engine *gin.Engine
	Logger *logger.ZapLogger
}

// InitializeApp 按依赖顺序组装应用，返回的 cleanup 释放外部连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 1. 基础设施
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}
	cleanups = append(cleanups, func() { _ = log.Sync() })

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 2. 账本
	ledger, closeLedger, err := newLedger(cfg, log, m)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeLedger)

	// 3. 告警发布
	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	// 4. 领域模块与服务
	now := time.Now
	shipmentModule := mdshipment.NewShipmentModule(ledger, mdshipment.Options{
		Now:             now,
		Humidity:        etrisk.NewRandomHumidity(time.Now().UnixNano()),
		DefaultLocation: cfg.Defaults.Location,
	})
	retailModule := mdretail.NewRetailModule(ledger, now, cfg.Defaults.Location)
	claimModule := mdclaim.NewClaimModule(ledger, now)
	reportModule := mdreport.NewReportModule(ledger)

	shipmentService := svshipment.NewShipmentService(shipmentModule, publisher, cfg.Notify.Mode, log, m)
	// 关闭发布器前等待未完成的告警发布
	cleanups = append(cleanups, shipmentService.Wait)

	handlers := routers.Handlers{
		Shipment: shipment.NewShipmentHandler(shipmentService),
		Retail:   retail.NewRetailHandler(svretail.NewRetailService(retailModule, log)),
		Claim:    claim.NewClaimHandler(svclaim.NewClaimService(claimModule, log)),
		Report:   report.NewReportHandler(svreport.NewReportService(reportModule)),
	}

	// 5. 路由
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := routers.SetupRoutes(handlers, log, m, reg)

	return &App{Engine: engine, Logger: log}, cleanup, nil
}

func newLedger(cfg *config.Config, log logger.Logger, m *metrics.Metrics) (rpledger.Ledger, func(), error) {
	ids := idgen.NewSnowflakeIDGenerator(cfg.App.MachineID)
	policy := rpledger.RetryPolicy{
		MaxAttempts: cfg.Ledger.MaxAttempts,
		Backoff:     cfg.Ledger.RetryBackoff,
	}

	if cfg.Ledger.Driver == config.LedgerDriverMemory {
		log.Warn("using in-memory ledger, data is not persisted")
		return rpledger.NewMemoryLedger(ids, policy, log, m), func() {}, nil
	}

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connect mysql failed: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ledger := rpledger.NewGormLedger(db, ids, policy, log, m)
	if cfg.Server.AutoMigrate {
		if err := ledger.AutoMigrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("auto migrate failed: %w", err)
		}
	}
	return ledger, func() { _ = sqlDB.Close() }, nil
}

func newPublisher(cfg *config.Config, log logger.Logger) (mdalert.Publisher, func(), error) {
	switch cfg.Notify.Mode {
	case config.NotifyModeOutbox:
		cli := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
		return mdalert.NewOutboxPublisher(cli, cfg.Notify.Queue, cfg.Notify.TTL), func() {}, nil
	case config.NotifyModeDirect:
		cli, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return mdalert.NewDirectPublisher(cli, cfg.Notify.Topic), func() { _ = cli.Close() }, nil
	default:
		return mdalert.NewLogPublisher(log), func() {}, nil
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 账本驱动
const (
	LedgerDriverMySQL  = "mysql"
	LedgerDriverMemory = "memory"
)

// 告警通知模式
const (
	NotifyModeOutbox = "outbox" // 经 lmstfy 队列由 ccsync 投递
	NotifyModeDirect = "direct" // 直接发布到 Redis 频道
	NotifyModeNone   = "none"   // 只记日志
)

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Lmstfy   LmstfyConfig   `mapstructure:"lmstfy"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	MachineID int64  `mapstructure:"machine_id"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type MySQLConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// LedgerConfig 账本与 OCC 重试配置
type LedgerConfig struct {
	Driver       string        `mapstructure:"driver"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// NotifyConfig 温度告警通知配置
type NotifyConfig struct {
	Mode  string        `mapstructure:"mode"`
	Queue string        `mapstructure:"queue"`
	Topic string        `mapstructure:"topic"`
	TTL   time.Duration `mapstructure:"ttl"`
}

// DefaultsConfig 坐标缺失时使用的默认位置
type DefaultsConfig struct {
	Location string `mapstructure:"location"`
}

// Load 从配置文件加载配置，环境变量 COLDCHAIN_* 优先
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("COLDCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ccmain")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.machine_id", 1)
	v.SetDefault("server.port", "8080")
	v.SetDefault("mysql.max_open_conns", 20)
	v.SetDefault("mysql.max_idle_conns", 5)
	v.SetDefault("ledger.driver", LedgerDriverMySQL)
	v.SetDefault("ledger.max_attempts", 4)
	v.SetDefault("ledger.retry_backoff", 20*time.Millisecond)
	v.SetDefault("notify.mode", NotifyModeOutbox)
	v.SetDefault("notify.queue", "shipment_alert")
	v.SetDefault("notify.topic", "coldchain:alerts")
	v.SetDefault("notify.ttl", 24*time.Hour)
	v.SetDefault("defaults.location", "CA")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	switch c.Ledger.Driver {
	case LedgerDriverMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("mysql dsn is required")
		}
	case LedgerDriverMemory:
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}
	if c.Ledger.MaxAttempts < 1 {
		return fmt.Errorf("ledger.max_attempts must be at least 1")
	}

	switch c.Notify.Mode {
	case NotifyModeOutbox:
		if c.Lmstfy.Host == "" {
			return fmt.Errorf("lmstfy host is required")
		}
		if c.Lmstfy.Token == "" {
			return fmt.Errorf("lmstfy token is required")
		}
		if c.Notify.Queue == "" {
			return fmt.Errorf("notify.queue is required")
		}
	case NotifyModeDirect:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required")
		}
		if c.Notify.Topic == "" {
			return fmt.Errorf("notify.topic is required")
		}
	case NotifyModeNone:
	default:
		return fmt.Errorf("unknown notify mode %q", c.Notify.Mode)
	}
	return nil
}

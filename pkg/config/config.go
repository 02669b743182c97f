package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 QCSYNC_LMSTFY_TOKEN
const EnvPrefix = "QCSYNC"

// Config 全局配置
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
	Workers []WorkerConfig `mapstructure:"workers"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig Redis 配置（addr 为空时不发送完成通知）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
	DeadQueue string `mapstructure:"dead_queue"` // Bury 的消息转投此队列，为空则直接丢弃
}

// MetricsConfig Prometheus 暴露地址，为空则不启动
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// WorkerConfig Worker 配置
type WorkerConfig struct {
	Name          string           `mapstructure:"name"`
	QueueName     string           `mapstructure:"queue_name"`
	CallbackQueue string           `mapstructure:"callback_queue"`
	Subscriber    SubscriberConfig `mapstructure:"subscriber"`
	Processor     ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`       // 并发拉取数
	Rate         time.Duration `mapstructure:"rate"`          // 拉取间隔
	Timeout      time.Duration `mapstructure:"timeout"`       // 拉取超时
	TTR          time.Duration `mapstructure:"ttr"`           // Time-To-Run
	ErrorBackoff time.Duration `mapstructure:"error_backoff"` // 错误退避时间
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`
	BufferSize int           `mapstructure:"buffer_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
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

	cfg.applyWorkerDefaults()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("lmstfy.port", 7777)
	v.SetDefault("redis.channel", "quality_analysis_complete")
}

// applyWorkerDefaults 数组元素无法使用 viper 默认值，这里补齐
func (c *Config) applyWorkerDefaults() {
	for i := range c.Workers {
		w := &c.Workers[i]
		if w.Subscriber.Threads <= 0 {
			w.Subscriber.Threads = 1
		}
		if w.Subscriber.Rate <= 0 {
			w.Subscriber.Rate = 100 * time.Millisecond
		}
		if w.Subscriber.Timeout <= 0 {
			w.Subscriber.Timeout = 3 * time.Second
		}
		if w.Subscriber.TTR <= 0 {
			w.Subscriber.TTR = 30 * time.Second
		}
		if w.Subscriber.ErrorBackoff <= 0 {
			w.Subscriber.ErrorBackoff = time.Second
		}
		if w.Processor.Threads <= 0 {
			w.Processor.Threads = 1
		}
		if w.Processor.BufferSize < 0 {
			w.Processor.BufferSize = 0
		}
		if w.Processor.Timeout <= 0 {
			w.Processor.Timeout = 10 * time.Second
		}
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	if len(c.Workers) == 0 {
		return fmt.Errorf("at least one worker is required")
	}
	for i, w := range c.Workers {
		if w.QueueName == "" {
			return fmt.Errorf("workers[%d].queue_name is required", i)
		}
		if w.CallbackQueue == "" {
			return fmt.Errorf("workers[%d].callback_queue is required", i)
		}
	}
	return nil
}

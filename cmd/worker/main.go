package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qms/qcsync/internal/worker"
	"qms/qcsync/pkg/config"
	"qms/qcsync/pkg/infra/redis"
	"qms/qcsync/pkg/logger"
	"qms/qcsync/pkg/metrics"
)

var (
	configPath = flag.String("config", "./config/worker.yaml", "配置文件路径")
)

func main() {
	flag.Parse()

	log.Println("========================================")
	log.Println("  QCSYNC Worker Starting...")
	log.Println("========================================")

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []worker.Option{worker.WithMetrics(metrics.NewMetrics(reg))}

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = startMetricsServer(cfg.Metrics.Addr, reg)
		log.Printf("Metrics listening on %s/metrics\n", cfg.Metrics.Addr)
	}

	// 4. Redis 完成通知（可选）
	if cfg.Redis.Addr != "" {
		pubSub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		if err != nil {
			log.Fatalf("Failed to create redis pubsub: %v", err)
		}
		defer pubSub.Close()
		opts = append(opts, worker.WithNotifier(pubSub))
		log.Printf("Redis notification enabled, channel: %s\n", pubSub.Channel())
	}

	// 5. 创建 Manager
	mgr, err := worker.NewManagerInstance(cfg, zapLogger, opts...)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	// 6. 启动 Manager（goroutine）
	go func() {
		if err := mgr.Start(); err != nil {
			log.Fatalf("Manager start failed: %v", err)
		}
	}()

	log.Println("Worker started. Press Ctrl+C to shutdown.")

	// 7. 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	log.Println("========================================")
	log.Printf("  Received signal: %v\n", sig)
	log.Println("  Shutting down Worker...")
	log.Println("========================================")

	// 8. 优雅关闭 Manager，最后关闭指标服务
	mgr.Shutdown()

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Printf("Metrics server shutdown: %v\n", err)
		}
	}

	fmt.Println("========================================")
	fmt.Println("  Worker exited gracefully")
	fmt.Println("========================================")
}

func startMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server failed: %v\n", err)
		}
	}()
	return srv
}

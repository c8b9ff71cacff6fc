// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "taxrefund-workers/internal/common/aws"
	"taxrefund-workers/internal/common/camunda"
	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/common/database"
	httpclient "taxrefund-workers/internal/common/http"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/observability"

	cls "taxrefund-workers/internal/workers/questionnaire/calculate-lead-score"
	ce "taxrefund-workers/internal/workers/questionnaire/check-eligibility"
	sl "taxrefund-workers/internal/workers/questionnaire/submit-lead"
	vqs "taxrefund-workers/internal/workers/questionnaire/validate-questionnaire-step"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("envFile", cfg.EnvFile),
		zap.String("employmentGate", string(cfg.Questionnaire.EmploymentGate)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var obs *observability.Observability
	if cfg.Metrics.Enabled {
		obs, err = observability.New(cfg.Metrics.ServiceName)
		if err != nil {
			zapLog.Fatal("observability init failed", zap.Error(err))
		}
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = camunda.RetryWithBackoff(ctx, func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "zeebe connection")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("broker", cfg.Camunda.BrokerAddress))

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = camunda.RetryWithBackoff(ctx, func() error {
		var err error
		redis, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		if err := redis.Ping(ctx); err != nil {
			redis.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, log, "redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	// --- Notification channels ---
	deps := sl.Dependencies{
		Locker:        database.NewSubmissionLocker(redis.GetClient(), cfg.Redis.LockPrefix, config.GetDuration(cfg.Redis.LockTTL)),
		Observability: obs,
	}
	n := cfg.Notifications
	if n.Email.Enabled || n.SMS.Enabled {
		awsCfg, err := awsclient.LoadConfig(ctx, n.AWSRegion)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if n.Email.Enabled {
			deps.SES = awsclient.NewSESClientFromConfig(awsCfg)
		}
		if n.SMS.Enabled {
			deps.SNS = awsclient.NewSNSClientFromConfig(awsCfg)
		}
	}
	if n.Webhook.Enabled {
		deps.Webhook = httpclient.NewClient(config.GetDuration(n.Webhook.Timeout))
	}

	// --- Register workers ---
	workers := camunda.NewWorker(zeebe.GetClient(), log).WithObservability(obs)

	workers.Start(vqs.TaskType, config.GetWorkerConfig(cfg, vqs.TaskType),
		vqs.NewHandler(vqs.LoadConfig(cfg), log).Handle)

	workers.Start(ce.TaskType, config.GetWorkerConfig(cfg, ce.TaskType),
		ce.NewHandler(ce.LoadConfig(cfg), log).Handle)

	workers.Start(cls.TaskType, config.GetWorkerConfig(cfg, cls.TaskType),
		cls.NewHandler(cls.LoadConfig(cfg), log).Handle)

	submitHandler, err := sl.NewHandler(sl.LoadConfig(cfg), deps, log)
	if err != nil {
		zapLog.Fatal("failed to create submit-lead handler", zap.Error(err))
	}
	workers.Start(sl.TaskType, config.GetWorkerConfig(cfg, sl.TaskType), submitHandler.Handle)

	zapLog.Info("Workers registered", zap.Strings("taskTypes", workers.TaskTypes()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"zeebe": "ok", "redis": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(checkCtx); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := redis.Ping(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		writeStatus(w, status, state, checks)
	})
	if cfg.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		zapLog.Error("Error closing Redis client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

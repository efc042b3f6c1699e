// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"carehome-workers/internal/common/aws"
	"carehome-workers/internal/common/camunda"
	"carehome-workers/internal/common/config"
	"carehome-workers/internal/common/database"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/observability"
	"carehome-workers/internal/matching"
	"carehome-workers/internal/matching/weights"
	"carehome-workers/internal/store"
	"carehome-workers/pkg/registry"

	cms "carehome-workers/internal/workers/carehome/calculate-match-score"
	dsw "carehome-workers/internal/workers/carehome/derive-scoring-weights"
	ge "carehome-workers/internal/workers/carehome/gather-enrichment"
	scf "carehome-workers/internal/workers/carehome/search-candidate-facilities"
	stf "carehome-workers/internal/workers/carehome/select-top-facilities"
	ssn "carehome-workers/internal/workers/carehome/send-shortlist-notification"
	vcp "carehome-workers/internal/workers/carehome/validate-client-profile"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, zapLog)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully",
		zap.Int("maxOpenConnections", pg.Stats().MaxOpenConnections))

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	if ok, err := esClient.IndexExists(ctx, cfg.Search.Index); err == nil && !ok {
		zapLog.Warn("candidate index missing; searches will fail until it is created",
			zap.String("index", cfg.Search.Index))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	repo := store.NewRepository(pg.DB, redis.Client, cfg.Enrichment.CacheTTL(), log)

	// --- Notification channels ---
	var (
		emailSender ssn.EmailSender
		smsSender   ssn.SMSSender
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		emailSender = ses
	}
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
		smsSender = sns
	}

	reg, err := registry.LoadRegistry(cfg.App.RegistryPath)
	if err != nil {
		zapLog.Warn("activity registry unavailable", zap.String("path", cfg.App.RegistryPath), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Warn("activity registry invalid", zap.Error(err))
	}

	policy := weights.DefaultPolicy()
	engine := matching.NewEngine(policy)

	// --- Register workers ---
	var workers []*camunda.Worker
	register := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		if reg != nil && reg.Find(taskType) == nil {
			zapLog.Warn("worker has no activity registry entry", zap.String("taskType", taskType))
		}
		wcfg := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(zeebe.Zeebe(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, instrument(obs, taskType, handler), zapLog))
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	register(vcp.TaskType, vcp.NewHandler(&vcp.Config{
		Timeout: timeout(vcp.TaskType),
	}, log).Handle)

	register(dsw.TaskType, dsw.NewHandler(&dsw.Config{
		Timeout: timeout(dsw.TaskType),
	}, policy, log).Handle)

	register(scf.TaskType, scf.NewHandler(&scf.Config{
		Index:         cfg.Search.Index,
		MaxCandidates: cfg.Search.MaxCandidates,
		RadiusFactor:  cfg.Search.RadiusFactor,
		Timeout:       timeout(scf.TaskType),
	}, esClient.Client, log).Handle)

	register(ge.TaskType, ge.NewHandler(&ge.Config{
		PoolSize:       cfg.Enrichment.PoolSize,
		PerCallTimeout: cfg.Enrichment.PerCallTimeout(),
		Timeout:        timeout(ge.TaskType),
	}, repo, obs.Tracer(), log).Handle)

	register(cms.TaskType, cms.NewHandler(&cms.Config{
		Timeout: timeout(cms.TaskType),
	}, engine, repo, log).Handle)

	register(stf.TaskType, stf.NewHandler(&stf.Config{
		Timeout:          timeout(stf.TaskType),
		PersistShortlist: true,
	}, repo, log).Handle)

	register(ssn.TaskType, ssn.NewHandler(&ssn.Config{
		Timeout:      timeout(ssn.TaskType),
		EmailEnabled: cfg.Notifications.Email.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		SenderID:     cfg.Notifications.SMS.SenderID,
	}, emailSender, smsSender, repo, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health / metrics server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           newHealthMux(readinessChecks(pg, redis, esClient, zeebe)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// instrument records OpenTelemetry job counters around a handler. Outcome
// codes are tracked by the Prometheus vectors inside each handler.
func instrument(obs *observability.Observability, taskType string, handler camunda.JobHandler) camunda.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, "handled")
		obs.RecordJobDuration(ctx, taskType, time.Since(start), "handled")
	}
}

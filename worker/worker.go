package worker

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Worker wraps the models.Worker state together with the table setup
// handler, which carries repositories the models package cannot hold.
type Worker struct {
	Worker *models.Worker
	Setup  *TableSetup
}

func NewWorker(ctx context.Context, cfg *models.Config, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "localhost"
	}
	ownerID := fmt.Sprintf("worker-%s-%s", hostname, uuid.New().String()[:8])

	workerConfig := &models.WorkerConfig{
		CronSchedule:      cronScheduleForEnvironment(cfg.AppEnv),
		LockTimeout:       30 * time.Minute,
		LockRetryInterval: 5 * time.Second,
		MaxRetries:        5,
		RetryDelay:        2 * time.Second,
		BackoffMultiplier: 2.0,
		Environment:       cfg.AppEnv,
		RequiredTables:    cfg.Tables,
		LockFilePath:      fmt.Sprintf("/tmp/b2bconnect-bootstrap-%s.lock", cfg.AppEnv),
		StatusFilePath:    fmt.Sprintf("/tmp/b2bconnect-status-%s.json", cfg.AppEnv),
		DryRun:            os.Getenv("BOOTSTRAP_DRY_RUN") == "true",
		ForceRecreate:     os.Getenv("BOOTSTRAP_FORCE_RECREATE") == "true",
		RunOnce:           true,
	}

	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	setup, err := NewTableSetup(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create table setup: %w", err)
	}

	lockManager := NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment)
	statusManager := NewStatusManager(workerConfig.StatusFilePath)

	workerCtx, cancel := context.WithCancel(context.Background())

	return &Worker{
		Worker: &models.Worker{
			Config:        cfg,
			Logger:        log,
			CronJob:       cron.New(),
			LockManager:   lockManager,
			StatusManager: statusManager.ToModelsStatusManager(),
			TableSetup:    setup.ToModelsTableSetup(),
			WorkerConfig:  workerConfig,
			OwnerID:       ownerID,
			StopChan:      make(chan struct{}),
			Ctx:           workerCtx,
			Cancel:        cancel,
		},
		Setup: setup,
	}, nil
}

// Start runs the bootstrap once, or on a schedule when RunOnce is off
func (w *Worker) Start() error {
	w.Worker.Mu.Lock()
	defer w.Worker.Mu.Unlock()

	if w.Worker.IsRunning {
		return fmt.Errorf("worker is already running")
	}
	if w.Worker.Ctx == nil || w.Worker.Cancel == nil {
		return fmt.Errorf("worker context is nil, worker may have been improperly initialized")
	}

	select {
	case <-w.Worker.Ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	w.Worker.Logger.Infof("Starting bootstrap worker %s (schedule %s, runOnce %v)",
		w.Worker.OwnerID, w.Worker.WorkerConfig.CronSchedule, w.Worker.WorkerConfig.RunOnce)

	statusManager := w.statusManager()
	if completed, err := statusManager.IsSetupCompleted(); err == nil && completed {
		if w.Worker.WorkerConfig.ForceRecreate {
			w.Worker.Logger.Info("Bootstrap already completed but ForceRecreate is enabled")
		} else {
			w.Worker.Logger.Info("Bootstrap already completed, starting in reconcile-only mode")
			return w.startReconcileMode()
		}
	}

	if w.Worker.WorkerConfig.RunOnce {
		w.Worker.IsRunning = true
		go w.runOnceSetup()
		return nil
	}

	if err := w.Worker.CronJob.AddFunc(w.Worker.WorkerConfig.CronSchedule, w.executeSetupJob); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	w.Worker.CronJob.Start()
	w.Worker.IsRunning = true

	w.Worker.Logger.Info("Bootstrap worker started")
	return nil
}

// startReconcileMode skips table creation and only keeps the sector
// company counts honest on a schedule.
func (w *Worker) startReconcileMode() error {
	err := w.Worker.CronJob.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(w.Worker.Ctx, 5*time.Minute)
		defer cancel()

		if err := w.Setup.ReconcileCompanyCounts(ctx); err != nil {
			w.Worker.Logger.Errorf("Scheduled reconciliation failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add reconcile job: %w", err)
	}

	w.Worker.CronJob.Start()
	w.Worker.IsRunning = true
	return nil
}

func (w *Worker) runOnceSetup() {
	defer func() {
		if r := recover(); r != nil {
			w.Worker.Logger.Errorf("Bootstrap panicked: %v", r)
		}
		w.Stop()
	}()

	ctx, cancel := context.WithTimeout(w.Worker.Ctx, 15*time.Minute)
	defer cancel()

	w.Worker.Logger.Info("Executing one-time bootstrap")
	w.executeSetupJobInternal(ctx)
}

func (w *Worker) executeSetupJob() {
	ctx, cancel := context.WithTimeout(w.Worker.Ctx, 15*time.Minute)
	defer cancel()

	w.executeSetupJobInternal(ctx)
}

func (w *Worker) executeSetupJobInternal(ctx context.Context) {
	statusManager := w.statusManager()

	select {
	case <-w.Worker.Ctx.Done():
		w.Worker.Logger.Info("Worker is stopping, skipping execution")
		return
	case <-ctx.Done():
		w.Worker.Logger.Info("Context cancelled, skipping execution")
		return
	default:
	}

	if completed, err := statusManager.IsSetupCompleted(); err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			w.Worker.Logger.Debug("Status file not found, proceeding with bootstrap")
		} else {
			w.Worker.Logger.Errorf("Failed to check completion status: %v", err)
		}
	} else if completed && !w.Worker.WorkerConfig.ForceRecreate {
		w.Worker.Logger.Info("Bootstrap already completed, skipping execution")
		return
	}

	lockInfo, err := w.acquireLockWithContext(ctx)
	if err != nil {
		w.Worker.Logger.Warnf("Failed to acquire lock: %v", err)
		return
	}
	defer func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		if err := lockManager.ReleaseLock(lockInfo); err != nil {
			w.Worker.Logger.Errorf("Failed to release lock: %v", err)
		}
	}()

	w.Worker.Logger.Info("Lock acquired, starting bootstrap")

	if err := w.executeSetupWithErrorHandling(ctx); err != nil {
		w.Worker.Logger.Errorf("Bootstrap failed: %v", err)
		if !w.Worker.WorkerConfig.RunOnce {
			if err := w.handleSetupFailure(err); err != nil {
				w.Worker.Logger.Errorf("Failed to handle bootstrap failure: %v", err)
			}
		}
		return
	}

	if err := statusManager.MarkCompleted(); err != nil {
		w.Worker.Logger.Errorf("Failed to mark bootstrap completed: %v", err)
	}
	w.Worker.Logger.Info("🎉 Bootstrap completed, all tables and seed data are ready")
}

func (w *Worker) executeSetupWithErrorHandling(ctx context.Context) error {
	setupCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	result := &models.ExecutionResult{
		StartTime:     time.Now(),
		Status:        models.StatusRunning,
		Environment:   w.Worker.Config.AppEnv,
		TablesCreated: make([]models.TableStatus, 0),
		Metadata:      make(map[string]any),
	}

	statusManager := w.statusManager()
	if err := statusManager.SaveStatus(result); err != nil {
		w.Worker.Logger.Errorf("Failed to save initial status: %v", err)
	}

	if w.Worker.WorkerConfig.DryRun {
		w.Worker.Logger.Info("Running in DRY RUN mode, no changes will be made")
		result.Success = true
		result.Status = models.StatusCompleted
		result.Metadata["dry_run"] = true
		return statusManager.SaveStatus(result)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("bootstrap panicked: %v", r)
			w.Worker.Logger.Errorf("Setup panic: %v", err)
			statusManager.MarkFailed(err.Error())
		}
	}()

	return w.Setup.Execute(setupCtx, statusManager)
}

func (w *Worker) handleSetupFailure(setupErr error) error {
	statusManager := w.statusManager()

	retryCount, err := statusManager.GetRetryCount()
	if err != nil {
		w.Worker.Logger.Warnf("Failed to get retry count, assuming 0: %v", err)
		retryCount = 0
	}

	if retryCount >= w.Worker.WorkerConfig.MaxRetries {
		w.Worker.Logger.Errorf("Maximum retries (%d) exceeded, giving up", w.Worker.WorkerConfig.MaxRetries)
		return statusManager.MarkFailed(fmt.Sprintf("Max retries exceeded: %v", setupErr))
	}

	if err := statusManager.IncrementRetryCount(); err != nil {
		return fmt.Errorf("failed to increment retry count: %w", err)
	}

	retryDelay := w.calculateRetryDelay(retryCount)
	w.Worker.Logger.Warnf("Bootstrap failed (attempt %d/%d), will retry in %v: %v",
		retryCount+1, w.Worker.WorkerConfig.MaxRetries+1, retryDelay, setupErr)

	return statusManager.UpdateProgress(models.StatusRetrying,
		fmt.Sprintf("Retrying after failure: %v", setupErr),
		map[string]any{
			"next_retry_at": time.Now().Add(retryDelay),
			"last_error":    setupErr.Error(),
		})
}

func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	delay := float64(w.Worker.WorkerConfig.RetryDelay.Nanoseconds())
	for range retryCount {
		delay *= w.Worker.WorkerConfig.BackoffMultiplier
	}

	maxDelay := float64((1 * time.Hour).Nanoseconds())
	if delay > maxDelay {
		delay = maxDelay
	}
	return time.Duration(int64(delay))
}

func (w *Worker) acquireLockWithContext(ctx context.Context) (*models.LockInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	type result struct {
		lockInfo *models.LockInfo
		err      error
	}
	resultChan := make(chan result, 1)

	go func() {
		lockManager := &LockManager{LockManager: *w.Worker.LockManager}
		lockInfo, err := lockManager.AcquireLock(w.Worker.OwnerID)
		resultChan <- result{lockInfo, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("lock acquisition cancelled: %w", ctx.Err())
	case res := <-resultChan:
		return res.lockInfo, res.err
	}
}

// GetStatus returns the last persisted bootstrap result
func (w *Worker) GetStatus() (*models.ExecutionResult, error) {
	return w.statusManager().LoadStatus()
}

// IsRunning reports whether the worker loop is active
func (w *Worker) IsRunning() bool {
	w.Worker.Mu.RLock()
	defer w.Worker.Mu.RUnlock()
	return w.Worker.IsRunning
}

// ForceSetup triggers an immediate bootstrap run
func (w *Worker) ForceSetup() error {
	if w.Worker.WorkerConfig.ForceRecreate {
		if err := w.statusManager().ResetStatus(); err != nil {
			w.Worker.Logger.Errorf("Failed to reset status: %v", err)
		}
	}

	go w.executeSetupJob()
	return nil
}

// Stop shuts the worker down exactly once
func (w *Worker) Stop() error {
	w.Worker.StopOnce.Do(func() {
		w.Worker.Mu.Lock()
		defer w.Worker.Mu.Unlock()

		if !w.Worker.IsRunning {
			return
		}

		w.Worker.Logger.Info("Stopping bootstrap worker")

		if w.Worker.Cancel != nil {
			w.Worker.Cancel()
		}
		if w.Worker.CronJob != nil {
			w.Worker.CronJob.Stop()
		}
		w.Worker.IsRunning = false

		select {
		case <-w.Worker.StopChan:
		default:
			close(w.Worker.StopChan)
		}

		w.Worker.Logger.Info("Bootstrap worker stopped")
	})

	return nil
}

func (w *Worker) statusManager() *StatusManager {
	return &StatusManager{StatusManager: *w.Worker.StatusManager}
}

func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if config.BackoffMultiplier <= 1.0 {
		return fmt.Errorf("backoff multiplier must be greater than 1.0")
	}
	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}

	if config.CronSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(config.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
		}
	}

	return nil
}

func cronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "*/30 * * * * *"
	case "testing":
		return "0 */5 * * * *"
	case "production":
		return "0 */15 * * * *"
	default:
		return "0 */10 * * * *"
	}
}

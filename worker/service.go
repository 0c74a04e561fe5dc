package worker

import (
	"context"
	"fmt"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"
)

// Service wraps the bootstrap worker for easy integration from main
type Service struct {
	worker *Worker
	logger logger.Logger
}

func NewService(ctx context.Context, cfg *models.Config, log logger.Logger) (*Service, error) {
	worker, err := NewWorker(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the bootstrap worker without blocking startup
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting bootstrap worker in background")

	go func() {
		if err := s.worker.Start(); err != nil {
			s.logger.Errorf("Bootstrap worker failed to start: %v", err)
		}
	}()

	return nil
}

// Stop stops the bootstrap worker
func (s *Service) Stop() error {
	s.logger.Info("Stopping bootstrap worker service")
	return s.worker.Stop()
}

// GetStatus returns the last persisted bootstrap result
func (s *Service) GetStatus() (*models.ExecutionResult, error) {
	return s.worker.GetStatus()
}

// IsSetupCompleted reports whether the bootstrap finished successfully
func (s *Service) IsSetupCompleted() (bool, error) {
	status, err := s.GetStatus()
	if err != nil {
		return false, err
	}
	return status.Status == models.StatusCompleted && status.Success, nil
}

// GetHealthStatus returns a snapshot for monitoring endpoints
func (s *Service) GetHealthStatus() map[string]interface{} {
	status, err := s.GetStatus()
	if err != nil {
		return map[string]interface{}{
			"status":         "error",
			"message":        fmt.Sprintf("Failed to get status: %v", err),
			"healthy":        false,
			"worker_running": s.worker.IsRunning(),
		}
	}

	return map[string]interface{}{
		"status":         string(status.Status),
		"healthy":        status.Status == models.StatusCompleted && status.Success,
		"worker_running": s.worker.IsRunning(),
		"tables_created": status.TablesCreated,
		"sectors_seeded": status.SectorsSeeded,
		"retry_count":    status.RetryCount,
		"environment":    status.Environment,
		"start_time":     status.StartTime,
		"duration":       status.Duration.String(),
		"error_message":  status.ErrorMessage,
	}
}

// ForceSetup triggers an immediate bootstrap run (admin use)
func (s *Service) ForceSetup() error {
	s.logger.Info("Forcing bootstrap execution")
	return s.worker.ForceSetup()
}

// WaitForCompletion polls until the bootstrap finishes or the timeout hits
func (s *Service) WaitForCompletion(timeoutSeconds int) error {
	s.logger.Infof("Waiting for bootstrap completion (timeout: %ds)", timeoutSeconds)

	for i := 0; i < timeoutSeconds; i++ {
		if completed, err := s.IsSetupCompleted(); err == nil && completed {
			s.logger.Info("Bootstrap completed")
			return nil
		}

		select {
		case <-s.worker.Worker.StopChan:
			if completed, err := s.IsSetupCompleted(); err == nil && completed {
				return nil
			}
			return fmt.Errorf("worker stopped before completion")
		default:
		}

		time.Sleep(1 * time.Second)
	}

	return fmt.Errorf("timeout waiting for bootstrap completion")
}

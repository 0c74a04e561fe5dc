package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"b2bconnect-backend/models"
)

// LockManager wraps models.LockManager so methods can live here
type LockManager struct {
	models.LockManager
}

func NewLockManager(lockPath string, timeout time.Duration, env string) *models.LockManager {
	return &models.LockManager{
		LockFilePath: lockPath,
		LockTimeout:  timeout,
		Environment:  env,
	}
}

// AcquireLock takes the file lock, extending it when this owner already holds it
func (lm *LockManager) AcquireLock(ownerID string) (*models.LockInfo, error) {
	if err := os.MkdirAll(filepath.Dir(lm.LockFilePath), 0755); err != nil {
		return nil, err
	}

	if existing, err := lm.readLockFile(); err == nil {
		if time.Now().Before(existing.ExpiresAt) {
			if existing.Owner == ownerID && existing.Environment == lm.Environment {
				return lm.extendLock(existing, ownerID)
			}
			return nil, fmt.Errorf("lock held by %s until %s", existing.Owner, existing.ExpiresAt.Format(time.RFC3339))
		}
	}

	lockInfo := &models.LockInfo{
		ID:          fmt.Sprintf("bootstrap-lock-%d", time.Now().UnixNano()),
		Owner:       ownerID,
		AcquiredAt:  time.Now(),
		ExpiresAt:   time.Now().Add(lm.LockTimeout),
		Environment: lm.Environment,
	}

	if err := lm.writeLockFile(lockInfo); err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	return lockInfo, nil
}

func (lm *LockManager) readLockFile() (*models.LockInfo, error) {
	data, err := os.ReadFile(lm.LockFilePath)
	if err != nil {
		return nil, err
	}

	var lockInfo models.LockInfo
	if err := json.Unmarshal(data, &lockInfo); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &lockInfo, nil
}

func (lm *LockManager) extendLock(existing *models.LockInfo, ownerID string) (*models.LockInfo, error) {
	if existing.Owner != ownerID {
		return nil, fmt.Errorf("cannot extend lock owned by %s", existing.Owner)
	}

	extended := &models.LockInfo{
		ID:          existing.ID,
		Owner:       existing.Owner,
		AcquiredAt:  existing.AcquiredAt,
		ExpiresAt:   time.Now().Add(lm.LockTimeout),
		Environment: existing.Environment,
	}

	if err := lm.writeLockFile(extended); err != nil {
		return nil, fmt.Errorf("failed to extend lock: %w", err)
	}
	return extended, nil
}

func (lm *LockManager) writeLockFile(lockInfo *models.LockInfo) error {
	data, err := json.MarshalIndent(lockInfo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize lock info: %w", err)
	}

	// Write-then-rename keeps the lock file update atomic
	tempFile := lm.LockFilePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp lock file: %w", err)
	}
	if err := os.Rename(tempFile, lm.LockFilePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp lock file: %w", err)
	}
	return nil
}

// CleanupExpiredLocks removes the lock file once it has expired
func (lm *LockManager) CleanupExpiredLocks() error {
	lockInfo, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if time.Now().After(lockInfo.ExpiresAt) {
		return os.Remove(lm.LockFilePath)
	}
	return nil
}

// ReleaseLock drops the lock after verifying ownership
func (lm *LockManager) ReleaseLock(lockInfo *models.LockInfo) error {
	currentLock, err := lm.readLockFile()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if currentLock.Owner != lockInfo.Owner {
		return fmt.Errorf("cannot release lock owned by %s", currentLock.Owner)
	}

	if err := os.Remove(lm.LockFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

package models

import (
	"context"
	"sync"
	"time"

	"b2bconnect-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/robfig/cron"
)

// DBClient interface to avoid circular dependency
type DBClient interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
	DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error
}

// StatusManager handles bootstrap status tracking
type StatusManager struct {
	StatusFilePath string
}

// LockManager handles distributed locking for the bootstrap worker
type LockManager struct {
	LockFilePath string
	LockTimeout  time.Duration
	Environment  string
}

// Worker manages the table bootstrap and reconciliation cron job
type Worker struct {
	Config        *Config
	Logger        logger.Logger
	CronJob       *cron.Cron
	LockManager   *LockManager
	StatusManager *StatusManager
	TableSetup    *TableSetup

	WorkerConfig *WorkerConfig
	OwnerID      string
	IsRunning    bool
	StopChan     chan struct{}

	Mu        sync.RWMutex
	Ctx       context.Context
	Cancel    context.CancelFunc
	SetupOnce sync.Once
	StopOnce  sync.Once
}

// TableSetup handles the actual table creation
type TableSetup struct {
	Config   *Config
	Logger   logger.Logger
	DBClient DBClient
}

// WorkerConfig holds configuration for the bootstrap worker
type WorkerConfig struct {
	CronSchedule string `json:"cron_schedule"`

	LockTimeout       time.Duration `json:"lock_timeout"`
	LockRetryInterval time.Duration `json:"lock_retry_interval"`

	MaxRetries        int           `json:"max_retries"`
	RetryDelay        time.Duration `json:"retry_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`

	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`

	DryRun        bool `json:"dry_run"`
	ForceRecreate bool `json:"force_recreate"`
	RunOnce       bool `json:"run_once"`
}

// LockInfo represents distributed lock information
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerStatus represents the current status of the bootstrap worker
type WorkerStatus string

const (
	StatusIdle         WorkerStatus = "idle"
	StatusInitializing WorkerStatus = "initializing"
	StatusRunning      WorkerStatus = "running"

	StatusCreatingTables   WorkerStatus = "creating_tables"
	StatusWaitingForTables WorkerStatus = "waiting_for_tables"
	StatusSeedingSectors   WorkerStatus = "seeding_sectors"
	StatusReconciling      WorkerStatus = "reconciling"

	StatusCompleted WorkerStatus = "completed"
	StatusFailed    WorkerStatus = "failed"
	StatusRetrying  WorkerStatus = "retrying"
)

// ExecutionResult holds the result of a worker run
type ExecutionResult struct {
	Success   bool         `json:"success"`
	Status    WorkerStatus `json:"status"`
	Phase     string       `json:"phase,omitempty"`
	StartTime time.Time    `json:"start_time"`
	EndTime   *time.Time   `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration"`

	TablesCreated []TableStatus `json:"tables_created"`
	SectorsSeeded int           `json:"sectors_seeded"`

	ErrorMessage string     `json:"error_message,omitempty"`
	LastError    *ErrorInfo `json:"last_error,omitempty"`
	RetryCount   int        `json:"retry_count"`

	Environment string                 `json:"environment"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// TableStatus represents table creation status
type TableStatus struct {
	Name           string     `json:"name"`
	Status         string     `json:"status"` // CREATING, ACTIVE, FAILED
	CreatedAt      time.Time  `json:"created_at"`
	BecameActiveAt *time.Time `json:"became_active_at,omitempty"`
	IndexCount     int        `json:"index_count"`
	BillingMode    string     `json:"billing_mode,omitempty"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	Timestamp   time.Time      `json:"timestamp"`
	Recoverable bool           `json:"recoverable"`
	RetryAfter  *time.Duration `json:"retry_after,omitempty"`
}

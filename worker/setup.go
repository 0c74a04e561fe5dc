package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/infrastructure"
	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// TableSetup wraps models.TableSetup and carries the repositories
// needed for sector seeding and count reconciliation.
type TableSetup struct {
	models.TableSetup
	Repos *repository.Repository
}

// defaultSectors is the catalog seeded on first bootstrap. IDs are the
// slugs so business records can point at sectors without a lookup.
var defaultSectors = []struct {
	Name        string
	Description string
	Icon        string
}{
	{"Agriculture", "Farming, forestry and agritech", "leaf"},
	{"Construction", "Building, contracting and engineering works", "hammer"},
	{"Education", "Schools, training and e-learning providers", "book"},
	{"Energy", "Power generation, utilities and renewables", "bolt"},
	{"Finance", "Banking, insurance and financial services", "bank"},
	{"Healthcare", "Clinics, medical devices and health services", "heart"},
	{"Hospitality", "Hotels, restaurants and tourism", "bed"},
	{"Logistics", "Transport, shipping and warehousing", "truck"},
	{"Manufacturing", "Industrial production and fabrication", "factory"},
	{"Media", "Publishing, advertising and entertainment", "camera"},
	{"Professional Services", "Consulting, legal and accounting", "briefcase"},
	{"Real Estate", "Property development, sales and management", "building"},
	{"Retail", "Shops, e-commerce and consumer goods", "cart"},
	{"Technology", "Software, hardware and IT services", "chip"},
}

// NewTableSetup creates the bootstrap handler with its own DB client
func NewTableSetup(cfg *models.Config, log logger.Logger) (*TableSetup, error) {
	dbClient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	return &TableSetup{
		TableSetup: models.TableSetup{
			Config:   cfg,
			Logger:   log,
			DBClient: dbClient,
		},
		Repos: repository.NewRepository(dbClient, cfg, log),
	}, nil
}

// ToModelsTableSetup returns the embedded models.TableSetup
func (ts *TableSetup) ToModelsTableSetup() *models.TableSetup {
	return &ts.TableSetup
}

// Execute runs the full bootstrap: create tables, wait until they are
// active, seed the sector catalog and reconcile per-sector counts.
func (ts *TableSetup) Execute(ctx context.Context, statusManager *StatusManager) error {
	ts.Logger.Info("Starting table bootstrap")

	if err := statusManager.UpdateProgress(models.StatusCreatingTables, "Creating tables", nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	tableNames := ts.prefixedTableNames()
	for _, name := range tableNames {
		if err := ts.createTableWithRetry(ctx, name); err != nil {
			ts.Logger.Errorf("Failed to create table %s: %v", name, err)
			statusManager.MarkFailed(fmt.Sprintf("Failed to create table %s: %v", name, err))
			return err
		}
		statusManager.AddTableCreated(name, ts.indexCount(name))
		ts.Logger.Infof("✅ Table ready: %s", name)
	}

	if err := statusManager.UpdateProgress(models.StatusWaitingForTables, "Waiting for tables to become active", nil); err != nil {
		ts.Logger.Errorf("Failed to update status: %v", err)
	}
	if err := ts.waitForTablesActive(ctx, tableNames); err != nil {
		statusManager.MarkFailed(fmt.Sprintf("Tables did not become active: %v", err))
		return err
	}

	if err := statusManager.UpdateProgress(models.StatusSeedingSectors, "Seeding sector catalog", nil); err != nil {
		ts.Logger.Errorf("Failed to update status: %v", err)
	}
	seeded, err := ts.SeedSectors(ctx)
	if err != nil {
		statusManager.MarkFailed(fmt.Sprintf("Sector seeding failed: %v", err))
		return err
	}
	statusManager.SetSectorsSeeded(seeded)

	if err := statusManager.UpdateProgress(models.StatusReconciling, "Reconciling sector company counts", nil); err != nil {
		ts.Logger.Errorf("Failed to update status: %v", err)
	}
	if err := ts.ReconcileCompanyCounts(ctx); err != nil {
		// Counts self-heal on the next pass, not worth failing the bootstrap
		ts.Logger.Warnf("Company count reconciliation failed: %v", err)
	}

	return nil
}

func (ts *TableSetup) prefixedTableNames() []string {
	names := make([]string, 0, len(ts.Config.Tables))
	for _, t := range ts.Config.Tables {
		names = append(names, ts.Config.DynamoDBTablePrefix+"_"+t)
	}
	return names
}

func (ts *TableSetup) indexCount(tableName string) int {
	input, err := infrastructure.GetTables(tableName)
	if err != nil {
		return 0
	}
	return len(input.GlobalSecondaryIndexes)
}

// createTableWithRetry creates one table, skipping it when it exists
func (ts *TableSetup) createTableWithRetry(ctx context.Context, tableName string) error {
	maxRetries := 3
	baseDelay := 5 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * baseDelay
			ts.Logger.Infof("Retrying table creation for %s in %v (attempt %d/%d)", tableName, delay, attempt+1, maxRetries+1)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		exists, err := ts.tableExists(ctx, tableName)
		if err != nil {
			ts.Logger.Errorf("Failed to check if table exists: %v", err)
			continue
		}
		if exists {
			ts.Logger.Infof("Table %s already exists, skipping creation", tableName)
			return nil
		}

		input, err := infrastructure.GetTables(tableName)
		if err != nil {
			return fmt.Errorf("failed to resolve table schema: %w", err)
		}

		if err := ts.DBClient.CreateTable(ctx, input); err != nil {
			ts.Logger.Errorf("Attempt %d failed to create table %s: %v", attempt+1, tableName, err)
			if attempt == maxRetries {
				return fmt.Errorf("failed to create table %s after %d attempts: %w", tableName, maxRetries+1, err)
			}
			continue
		}
		return nil
	}

	return fmt.Errorf("exhausted all retry attempts for table %s", tableName)
}

func (ts *TableSetup) tableExists(ctx context.Context, tableName string) (bool, error) {
	_, err := ts.DBClient.DescribeTable(ctx, tableName)
	if err != nil {
		if isTableNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isTableNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ResourceNotFoundException"
	}

	errorStr := err.Error()
	return strings.Contains(errorStr, "ResourceNotFoundException") ||
		strings.Contains(errorStr, "Table not found") ||
		strings.Contains(errorStr, "Requested resource not found")
}

// waitForTablesActive polls until every table reports ACTIVE
func (ts *TableSetup) waitForTablesActive(ctx context.Context, tableNames []string) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		allActive := true
		for _, name := range tableNames {
			desc, err := ts.DBClient.DescribeTable(timeoutCtx, name)
			if err != nil {
				allActive = false
				break
			}
			if desc.Table.TableStatus != types.TableStatusActive {
				ts.Logger.Debugf("Table %s is %s", name, desc.Table.TableStatus)
				allActive = false
				break
			}
		}

		if allActive {
			ts.Logger.Info("All tables are active")
			return nil
		}

		select {
		case <-timeoutCtx.Done():
			return fmt.Errorf("timeout waiting for tables to become active")
		case <-ticker.C:
		}
	}
}

// SeedSectors inserts any catalog sectors missing from the table and
// returns how many were created. Existing sectors are left untouched.
func (ts *TableSetup) SeedSectors(ctx context.Context) (int, error) {
	existing, err := ts.Repos.Sector.ListSectors(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sectors: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, s := range existing {
		present[s.ID] = true
	}

	seeded := 0
	for _, def := range defaultSectors {
		slug := utils.Slugify(def.Name)
		if present[slug] {
			continue
		}

		sector := &models.Sector{
			ID:          slug,
			Name:        def.Name,
			Slug:        slug,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if _, err := ts.Repos.Sector.CreateSector(ctx, sector); err != nil {
			return seeded, fmt.Errorf("failed to seed sector %s: %w", def.Name, err)
		}
		seeded++
		ts.Logger.Infof("Seeded sector: %s", def.Name)
	}

	return seeded, nil
}

// ReconcileCompanyCounts recounts companies per sector and rewrites any
// counter that drifted from the scan result.
func (ts *TableSetup) ReconcileCompanyCounts(ctx context.Context) error {
	businesses, err := ts.Repos.Business.ListBusinesses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list businesses: %w", err)
	}

	counts := make(map[string]int)
	for _, b := range businesses {
		if b.Sector != "" {
			counts[b.Sector]++
		}
	}

	sectors, err := ts.Repos.Sector.ListSectors(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sectors: %w", err)
	}

	for _, sector := range sectors {
		actual := counts[sector.ID]
		if sector.CompanyCount == actual {
			continue
		}

		ts.Logger.Infof("Sector %s count drifted: stored %d, actual %d", sector.ID, sector.CompanyCount, actual)
		if err := ts.Repos.Sector.UpdateCompanyCount(ctx, sector.ID, actual); err != nil {
			ts.Logger.Errorf("Failed to update count for sector %s: %v", sector.ID, err)
		}
	}

	return nil
}

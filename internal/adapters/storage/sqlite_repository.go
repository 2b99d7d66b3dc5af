package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

const maxRetries = 5

// ErrRunNotFound is returned by GetRun for unknown run ids
var ErrRunNotFound = errors.New("suite run not found")

// SQLiteRepository implements ports.ResultRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.ResultRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the move logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		logging.Logger.Error("gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
	case elapsed > 200*time.Millisecond:
		logging.Logger.Warn("slow query", "duration", elapsed, "sql", sql, "rows", rows)
	default:
		logging.Logger.Debug("gorm query", "duration", elapsed, "sql", sql, "rows", rows)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("MOVE_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository opens (creating if needed) the history database
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:      newGormLogger(),
		NowFunc:     func() time.Time { return time.Now().UTC() },
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Several move processes may record runs at once
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	err = withRetry(func() error {
		return db.AutoMigrate(&SuiteRunModel{}, &ScriptResultModel{})
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	logging.Logger.Debug("History database opened", "path", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun records a suite run and its per-script outcomes
func (r *SQLiteRepository) SaveRun(ctx context.Context, result *domain.SuiteResult) error {
	if result.RunID == "" {
		return fmt.Errorf("suite result has no run id")
	}
	model := suiteResultToModel(result)

	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save suite run: %w", err)
			}
			logging.Logger.Debug("Suite run recorded", "run_id", model.RunID, "scripts", len(model.Scripts))
			return nil
		})
	}, maxRetries)
}

// GetRun returns one run by id
func (r *SQLiteRepository) GetRun(ctx context.Context, runID string) (*domain.RunSummary, error) {
	var model SuiteRunModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Preload("Scripts").First(&model, "run_id = ?", runID).Error
	}, maxRetries)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load suite run: %w", err)
	}

	summary := suiteRunModelToDomain(model)
	return &summary, nil
}

// ListRuns returns the newest runs first. An empty root lists every root;
// limit <= 0 means no limit.
func (r *SQLiteRepository) ListRuns(ctx context.Context, root string, limit int) ([]domain.RunSummary, error) {
	var models []SuiteRunModel
	err := withRetry(func() error {
		q := r.db.WithContext(ctx).Preload("Scripts").Order("started_at DESC").Order("run_id")
		if root != "" {
			q = q.Where("root = ?", root)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&models).Error
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to list suite runs: %w", err)
	}

	runs := make([]domain.RunSummary, len(models))
	for i, m := range models {
		runs[i] = suiteRunModelToDomain(m)
	}
	return runs, nil
}

// withRetry retries fn while SQLite reports the database busy or locked
func withRetry(fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			logging.Logger.Debug("Database busy, retrying", "attempt", i+1)
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}

// Package archive keeps a history of pipeline runs in a local SQLite database.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/weather-visualizer/internal/log"
	"github.com/chrissnell/weather-visualizer/internal/types"

	_ "modernc.org/sqlite"
)

const readingBatchSize = 500

// RunRecord is everything SaveRun persists for one execution
type RunRecord struct {
	ID        string
	InputPath string
	Table     *types.Table
	Overall   *types.OverallStats
	Monthly   *types.MonthlySummary
	CreatedAt time.Time
}

// Store is an open run archive
type Store struct {
	DB   *gorm.DB
	path string
}

// Open opens or creates the archive at path and migrates its schema
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Debugw("opening run archive", "path", path)
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: path}, &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to open archive %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Run{}, &ColumnStat{}, &Reading{}, &MonthlySummary{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	return &Store{DB: db, path: path}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun writes the run, its statistics, every cleaned reading and the
// monthly summary in one transaction.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if rec.Table == nil {
		return fmt.Errorf("run %s has no table", rec.ID)
	}

	run := Run{
		ID:         rec.ID,
		InputPath:  rec.InputPath,
		DateColumn: rec.Table.IndexName,
		RowCount:   rec.Table.Len(),
		CreatedAt:  rec.CreatedAt,
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if first, last, ok := rec.Table.Span(); ok {
		run.FirstDate, run.LastDate = first, last
	}

	readings, err := buildReadings(rec.ID, rec.Table)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Stats", "Readings", "Monthly").Create(&run).Error; err != nil {
			return fmt.Errorf("error inserting run: %w", err)
		}

		if rec.Overall != nil && len(rec.Overall.Columns) > 0 {
			stats := make([]ColumnStat, 0, len(rec.Overall.Columns))
			for _, c := range rec.Overall.Columns {
				stats = append(stats, ColumnStat{
					RunID:  rec.ID,
					Column: c.Column,
					Count:  c.Count,
					Mean:   nullable(c.Mean),
					Min:    nullable(c.Min),
					Max:    nullable(c.Max),
					StdDev: nullable(c.StdDev),
				})
			}
			if err := tx.Create(&stats).Error; err != nil {
				return fmt.Errorf("error inserting column stats: %w", err)
			}
		}

		if len(readings) > 0 {
			if err := tx.CreateInBatches(&readings, readingBatchSize).Error; err != nil {
				return fmt.Errorf("error inserting readings: %w", err)
			}
		}

		if rec.Monthly != nil && len(rec.Monthly.Rows) > 0 {
			months := make([]MonthlySummary, 0, len(rec.Monthly.Rows))
			for _, r := range rec.Monthly.Rows {
				months = append(months, MonthlySummary{
					RunID:           rec.ID,
					Month:           r.Month,
					Count:           r.Count,
					TemperatureMean: nullable(r.TemperatureMean),
					TemperatureMin:  nullable(r.TemperatureMin),
					TemperatureMax:  nullable(r.TemperatureMax),
					RainfallSum:     nullable(r.RainfallSum),
					HumidityMean:    nullable(r.HumidityMean),
				})
			}
			if err := tx.Create(&months).Error; err != nil {
				return fmt.Errorf("error inserting monthly summary: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infow("run archived", "run_id", rec.ID, "path", s.path, "readings", len(readings))
	return nil
}

// LoadRun fetches a run with its statistics and monthly summary
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.DB.WithContext(ctx).
		Preload("Stats").
		Preload("Monthly", func(db *gorm.DB) *gorm.DB { return db.Order("month") }).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("error loading run %s: %w", id, err)
	}
	return &run, nil
}

func buildReadings(runID string, t *types.Table) ([]Reading, error) {
	columns := t.Columns()
	readings := make([]Reading, 0, t.Len()*len(columns))
	for _, name := range columns {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			readings = append(readings, Reading{
				RunID:     runID,
				Timestamp: t.Index[i],
				Column:    name,
				Value:     nullable(v),
			})
		}
	}
	return readings, nil
}

package reportstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkulima-ai/leafscan/internal/models"
)

const historyLimit = 20

// Store persists disease reports in SQLite and answers history and
// outbreak queries over them. The pipeline itself never touches this;
// reports arrive through the queue worker.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the report database and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(db)
}

// New wraps an existing gorm connection, migrating the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.DiseaseReport{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save persists one report. Saving the same image hash twice is treated as
// a duplicate and ignored.
func (s *Store) Save(ctx context.Context, report *models.DiseaseReport) error {
	err := s.db.WithContext(ctx).Create(report).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

// History returns the most recent reports for a farmer, newest first.
func (s *Store) History(ctx context.Context, farmerID string) ([]models.DiseaseReport, error) {
	var reports []models.DiseaseReport
	err := s.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Limit(historyLimit).
		Find(&reports).Error
	return reports, err
}

// Outbreaks aggregates case counts per disease and severity since the
// given time, most cases first.
func (s *Store) Outbreaks(ctx context.Context, since time.Time) ([]models.OutbreakAlert, error) {
	var alerts []models.OutbreakAlert
	err := s.db.WithContext(ctx).
		Model(&models.DiseaseReport{}).
		Select("disease_name AS disease, severity_level AS severity, COUNT(*) AS cases").
		Where("created_at >= ?", since).
		Group("disease_name, severity_level").
		Order("cases DESC").
		Scan(&alerts).Error
	return alerts, err
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// The sqlite driver reports constraint violations as plain errors;
	// match on the message as a fallback.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

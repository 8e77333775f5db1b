package services

import (
	"errors"
	"time"

	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"gorm.io/gorm"
)

// MigrationService tracks which numbered migrations completed on each network
type MigrationService interface {
	RecordCompleted(runID, network string, number int, name string) error
	LastCompleted(network string) (int, error)
	Reset(network string) error
	ListByNetwork(network string) ([]models.MigrationRecord, error)
}

type migrationService struct {
	db *gorm.DB
}

// NewMigrationService creates a new MigrationService
func NewMigrationService(db *gorm.DB) MigrationService {
	return &migrationService{db: db}
}

// RecordCompleted stores a completion marker for a migration
func (s *migrationService) RecordCompleted(runID, network string, number int, name string) error {
	return s.db.Create(&models.MigrationRecord{
		RunID:       runID,
		Network:     network,
		Number:      number,
		Name:        name,
		CompletedAt: time.Now(),
	}).Error
}

// LastCompleted returns the highest completed migration number on a network, 0 when none ran
func (s *migrationService) LastCompleted(network string) (int, error) {
	var record models.MigrationRecord
	err := s.db.Where("network = ?", network).Order("number desc").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Number, nil
}

// Reset forgets every completed migration on a network
func (s *migrationService) Reset(network string) error {
	return s.db.Where("network = ?", network).Delete(&models.MigrationRecord{}).Error
}

// ListByNetwork returns completion markers for a network, oldest first
func (s *migrationService) ListByNetwork(network string) ([]models.MigrationRecord, error) {
	var records []models.MigrationRecord
	err := s.db.Where("network = ?", network).Order("id asc").Find(&records).Error
	return records, err
}

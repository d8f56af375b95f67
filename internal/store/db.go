package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/wardroom/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB keeps snapshots as rows of the snapshots table.
type DB struct {
	db *gorm.DB
}

// NewDB wraps an already-migrated gorm connection.
func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Read implements Store.
func (s *DB) Read(name string) ([]byte, error) {
	var snap models.Snapshot
	if err := s.db.Where("name = ?", name).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	return []byte(snap.Data), nil
}

// Write implements Store, upserting the slot's row.
func (s *DB) Write(name string, data []byte) error {
	snap := models.Snapshot{
		Name:      name,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap)
	if result.Error != nil {
		return fmt.Errorf("store: write %s: %w", name, result.Error)
	}
	return nil
}

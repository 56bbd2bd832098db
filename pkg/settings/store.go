package settings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

// Store is a generic key/value settings store scoped by journal and group.
type Store interface {
	Get(ctx context.Context, journal, group, name string) (string, error)
	Set(ctx context.Context, journal, group, name, value string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&settingModel{})
}

func (s *GormStore) Get(ctx context.Context, journal, group, name string) (string, error) {
	var setting settingModel
	result := s.db.WithContext(ctx).
		Where("journal_code = ? AND group_name = ? AND name = ?", journal, group, name).
		First(&setting)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", ErrSettingNotFound
	}
	if result.Error != nil {
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStore) Set(ctx context.Context, journal, group, name, value string) error {
	setting := settingModel{
		JournalCode: journal,
		GroupName:   group,
		Name:        name,
		Value:       value,
		UpdatedAt:   time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "journal_code"}, {Name: "group_name"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

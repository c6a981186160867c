// internal/store/postgres_store.go
package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/models"
)

// profileBlob stores the whole UserProfile as one JSONB column.
type profileBlob models.UserProfile

func (b profileBlob) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *profileBlob) Scan(value interface{}) error {
	if value == nil {
		*b = profileBlob{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unexpected jsonb value of type %T", value)
	}
	return json.Unmarshal(bytes, b)
}

// ProfileRecord is one storage key and its current profile blob.
type ProfileRecord struct {
	StorageKey string      `gorm:"primaryKey;size:64"`
	Blob       profileBlob `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FulfillmentOrder is the denormalized hand-off row the external fulfillment
// system consumes. It owns status/QA advancement from here on; the profile
// blob keeps its own frozen copy.
type FulfillmentOrder struct {
	OrderCode      string         `gorm:"primaryKey;size:32"`
	StorageKey     string         `gorm:"size:64;index"`
	ProfileID      string         `gorm:"size:32"`
	WorkID         string         `gorm:"size:64"`
	Category       string         `gorm:"size:20"`
	ImageRef       string         `gorm:"size:512"`
	Specs          models.JSONB   `gorm:"type:jsonb"`
	Price          float64        `gorm:"type:decimal(10,2)"`
	LeadTime       int
	Status         string         `gorm:"type:varchar(20);default:'PENDING';index"`
	QARecords      pq.StringArray `gorm:"type:text[]"`
	TrackingNumber string         `gorm:"size:64"`
	CreatedAt      time.Time
}

// PostgresStore persists profile blobs in one table, whole-blob replace per
// save, and mirrors placed orders into the fulfillment table.
type PostgresStore struct {
	db  *gorm.DB
	ids idgen.Generator
}

func NewPostgresStore(cfg config.DatabaseConfig, ids idgen.Generator) (*PostgresStore, error) {
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.LogLevel != "silent" {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&ProfileRecord{}, &FulfillmentOrder{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db, ids: ids}, nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) *models.UserProfile {
	var record ProfileRecord
	err := s.db.WithContext(ctx).First(&record, "storage_key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("storage_key", key).Warn("Profile row unreadable, starting as guest")
		}
		return NewGuestProfile(s.ids)
	}

	profile := models.UserProfile(record.Blob)
	repairLoaded(&profile, s.ids)
	return &profile
}

func (s *PostgresStore) Save(ctx context.Context, key string, profile *models.UserProfile) error {
	record := ProfileRecord{
		StorageKey: key,
		Blob:       profileBlob(*profile),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save profile blob: %w", err)
	}
	return nil
}

// MirrorOrder writes the fulfillment hand-off row. Best effort: the caller
// logs and swallows failures.
func (s *PostgresStore) MirrorOrder(ctx context.Context, key string, profileID string, order models.Order) error {
	specs := make(models.JSONB, len(order.Specs))
	for k, v := range order.Specs {
		specs[k] = v
	}
	row := FulfillmentOrder{
		OrderCode:      order.ID,
		StorageKey:     key,
		ProfileID:      profileID,
		WorkID:         order.WorkID,
		Category:       string(order.Category),
		ImageRef:       order.ImageRef,
		Specs:          specs,
		Price:          order.Price,
		LeadTime:       order.LeadTime,
		Status:         string(order.Status),
		QARecords:      pq.StringArray(order.QARecords),
		TrackingNumber: order.TrackingNumber,
		CreatedAt:      order.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to mirror order %s: %w", order.ID, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

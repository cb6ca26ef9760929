package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"demo/sleep"
)

// SleepModel is a stored sleep record.
type SleepModel struct {
	ID            string    `gorm:"primaryKey"`
	RecordID      int       `gorm:"index"`
	Start         time.Time `gorm:"index;not null"`
	End           time.Time `gorm:"not null"`
	Interruptions int
	Comment       string
	CreatedAt     time.Time
}

func (SleepModel) TableName() string { return "sleeps" }

// Duration is the time slept.
func (m SleepModel) Duration() time.Duration {
	return m.End.Sub(m.Start)
}

type SleepStore struct {
	db *gorm.DB
}

func NewSleepStore(db *gorm.DB) *SleepStore {
	return &SleepStore{db: db}
}

// Save validates rec and stores it under a new identifier.
func (s *SleepStore) Save(ctx context.Context, rec sleep.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	start, _ := rec.StartTime()
	end, _ := rec.EndTime()

	model := &SleepModel{
		ID:            uuid.NewString(),
		RecordID:      rec.ID,
		Start:         start.UTC(),
		End:           end.UTC(),
		Interruptions: rec.NumberOfInterruptions,
		Comment:       rec.Comment,
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", fmt.Errorf("save sleep: %w", err)
	}
	return model.ID, nil
}

// NextRecordID returns the record number following the highest one stored, 1 when empty.
func (s *SleepStore) NextRecordID(ctx context.Context) (int, error) {
	var last int
	err := s.db.WithContext(ctx).
		Model(&SleepModel{}).
		Select("COALESCE(MAX(record_id), 0)").
		Row().
		Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("next sleep id: %w", err)
	}
	return last + 1, nil
}

// Get returns the record stored under id.
func (s *SleepStore) Get(ctx context.Context, id string) (SleepModel, error) {
	var model SleepModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SleepModel{}, fmt.Errorf("sleep %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SleepModel{}, fmt.Errorf("sleep %s: %w", id, err)
	}
	return model, nil
}

// List returns the records starting in [begin, end), oldest first.
func (s *SleepStore) List(ctx context.Context, begin, end time.Time) ([]SleepModel, error) {
	result := make([]SleepModel, 0)
	err := s.db.WithContext(ctx).
		Where("start >= ? AND start < ?", begin.UTC(), end.UTC()).
		Order("start").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("list sleeps: %w", err)
	}
	return result, nil
}

// Delete removes the record stored under id.
func (s *SleepStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&SleepModel{})
	if res.Error != nil {
		return fmt.Errorf("delete sleep %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sleep %s: %w", id, ErrNotFound)
	}
	return nil
}

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ItemModel is one time-stamped value written under a key.
type ItemModel struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"index;not null"`
	TimestampMs int64  `gorm:"not null"`
	DateTime    int64  `gorm:"index;not null"`
	Value       string `gorm:"not null"`
}

func (ItemModel) TableName() string { return "items" }

// Item is a decoded ItemModel.
type Item struct {
	Key string
	// Timestamp is when the entry was written.
	Timestamp time.Time
	// Date is the date the value applies to.
	Date  time.Time
	Value json.RawMessage
}

// Decode unmarshals the item value into dst.
func (i Item) Decode(dst any) error {
	return json.Unmarshal(i.Value, dst)
}

// ItemStore keeps values per key as an append-only history. Keys are free-form;
// namespacing them ("profile/name", "profile/age") avoids collisions between modules.
type ItemStore struct {
	db     *gorm.DB
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewItemStore(db *gorm.DB, logger *slog.Logger) *ItemStore {
	return &ItemStore{
		db:     db,
		logger: logger,
		loc:    time.Local,
		now:    time.Now,
	}
}

// WithLocation returns a copy of the store comparing calendar days in loc.
func (s *ItemStore) WithLocation(loc *time.Location) *ItemStore {
	c := *s
	c.loc = loc
	return &c
}

// SetItem records value under key for the current date.
func (s *ItemStore) SetItem(ctx context.Context, key string, value any) error {
	return s.SetItemByDate(ctx, key, value, s.now())
}

// SetItemByDate records value under key for date.
func (s *ItemStore) SetItemByDate(ctx context.Context, key string, value any, date time.Time) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	model := &ItemModel{
		Key:         key,
		TimestampMs: s.now().UnixMilli(),
		DateTime:    date.UnixMilli(),
		Value:       string(raw),
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// AllItems returns every entry of key, oldest first. The result is empty, not nil, for unknown keys.
func (s *ItemStore) AllItems(ctx context.Context, key string) ([]Item, error) {
	var models []ItemModel
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Order("timestamp_ms, id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("items of %s: %w", key, err)
	}
	return s.toItems(models), nil
}

// Items returns the entries of key dated on the same day as begin or end, or strictly between them.
func (s *ItemStore) Items(ctx context.Context, key string, begin, end time.Time) ([]Item, error) {
	lo, hi := begin, end
	if hi.Before(lo) {
		lo, hi = hi, lo
	}

	var models []ItemModel
	err := s.db.WithContext(ctx).
		Where("key = ? AND date_time >= ? AND date_time < ?", key,
			s.startOfDay(lo).UnixMilli(), s.startOfDay(hi).AddDate(0, 0, 1).UnixMilli()).
		Order("timestamp_ms, id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("items of %s: %w", key, err)
	}

	items := make([]Item, 0, len(models))
	for _, item := range s.toItems(models) {
		if s.betweenDates(item.Date, begin, end) {
			items = append(items, item)
		}
	}
	return items, nil
}

// DailyItems returns, for each day from begin to end, the latest entry of key dated that day.
// Days without entries are skipped.
func (s *ItemStore) DailyItems(ctx context.Context, key string, begin, end time.Time) ([]Item, error) {
	items, err := s.Items(ctx, key, begin, end)
	if err != nil {
		return nil, err
	}

	res := make([]Item, 0)
	last := s.startOfDay(end)
	for day := s.startOfDay(begin); !day.After(last); day = day.AddDate(0, 0, 1) {
		var latest *Item
		for i := range items {
			if s.sameDate(items[i].Date, day) {
				latest = &items[i]
			}
		}
		if latest != nil {
			res = append(res, *latest)
		}
	}
	return res, nil
}

// LastItem returns the most recently written entry of key.
func (s *ItemStore) LastItem(ctx context.Context, key string) (Item, error) {
	var model ItemModel
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Order("timestamp_ms DESC, id DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Item{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return Item{}, fmt.Errorf("last item of %s: %w", key, err)
	}
	return s.toItem(model), nil
}

// Item returns the most recently written entry of key dated on the same day as date.
func (s *ItemStore) Item(ctx context.Context, key string, date time.Time) (Item, error) {
	items, err := s.Items(ctx, key, date, date)
	if err != nil {
		return Item{}, err
	}
	if len(items) == 0 {
		return Item{}, fmt.Errorf("%s on %s: %w", key, date.In(s.loc).Format(time.DateOnly), ErrNotFound)
	}
	return items[len(items)-1], nil
}

// RemoveItem deletes the whole history of key.
func (s *ItemStore) RemoveItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&ItemModel{}).Error; err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys returns the distinct keys in lexical order.
func (s *ItemStore) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&ItemModel{}).Distinct().Order("key").Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("keys: %w", err)
	}
	return keys, nil
}

// Clear deletes every entry of every key.
func (s *ItemStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ItemModel{}).Error
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (s *ItemStore) toItems(models []ItemModel) []Item {
	items := make([]Item, 0, len(models))
	for _, m := range models {
		items = append(items, s.toItem(m))
	}
	return items
}

func (s *ItemStore) toItem(m ItemModel) Item {
	return Item{
		Key:       m.Key,
		Timestamp: time.UnixMilli(m.TimestampMs).In(s.loc),
		Date:      time.UnixMilli(m.DateTime).In(s.loc),
		Value:     json.RawMessage(m.Value),
	}
}

func (s *ItemStore) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (s *ItemStore) sameDate(a, b time.Time) bool {
	return s.startOfDay(a).Equal(s.startOfDay(b))
}

func (s *ItemStore) betweenDates(date, begin, end time.Time) bool {
	return s.sameDate(date, begin) || s.sameDate(date, end) || (date.After(begin) && date.Before(end))
}

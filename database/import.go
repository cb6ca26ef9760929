package database

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"
)

const importBatchSize = 1_000

// Import reads "key;YYYYMMDD;value" lines from r and appends them in a single transaction.
// Values that are not valid JSON are stored as JSON strings. Malformed lines are logged and
// skipped. A failing reader aborts the import without writing anything. Import returns the
// number of entries written.
func (s *ItemStore) Import(ctx context.Context, r io.Reader) (int, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = ';'
	csvReader.FieldsPerRecord = -1

	now := s.now().UnixMilli()
	records := make([]ItemModel, 0, 1000)

	line := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return 0, fmt.Errorf("import: %w", err)
			}
			s.logger.Error("Error while reading line", "error", err, "line", line)
			continue
		}
		if len(record) != 3 {
			s.logger.Error("Error while parsing line", "line", line, "fields", len(record))
			continue
		}

		key := strings.TrimSpace(record[0])
		if key == "" {
			s.logger.Error("Error while parsing line", "error", ErrEmptyKey, "line", line)
			continue
		}

		date, err := time.ParseInLocation("20060102", strings.TrimSpace(record[1]), s.loc)
		if err != nil {
			s.logger.Error("Error while parsing line", "error", err, "line", line, "value", record[1])
			continue
		}

		value := strings.TrimSpace(record[2])
		if !json.Valid([]byte(value)) {
			raw, _ := json.Marshal(value)
			value = string(raw)
		}

		records = append(records, ItemModel{
			Key:         key,
			TimestampMs: now,
			DateTime:    date.UnixMilli(),
			Value:       value,
		})
	}

	if len(records) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(records, importBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}

	s.logger.Info("Import complete", "items", len(records), "lines", line)
	return len(records), nil
}

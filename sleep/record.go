// Package sleep validates and describes sleep records entered by the user.
package sleep

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord is returned by Parse when validation fails.
var ErrInvalidRecord = errors.New("invalid sleep record")

// Record is one night of sleep as exchanged in JSON.
type Record struct {
	ID                    int    `json:"id"`
	Start                 string `json:"start"`
	End                   string `json:"end"`
	NumberOfInterruptions int    `json:"numberOfInteruptions"`
	Comment               string `json:"comment"`
}

// StartTime parses Start.
func (r Record) StartTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Start)
}

// EndTime parses End.
func (r Record) EndTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.End)
}

// Duration is the time between Start and End.
func (r Record) Duration() (time.Duration, error) {
	start, err := r.StartTime()
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	end, err := r.EndTime()
	if err != nil {
		return 0, fmt.Errorf("end: %w", err)
	}
	return end.Sub(start), nil
}

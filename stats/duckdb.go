package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"demo/database"
)

// Point is a numeric value on a date.
type Point struct {
	Date  time.Time
	Value float64
}

// DailySummary aggregates the points of one calendar day.
type DailySummary struct {
	Day   time.Time
	Count int
	Min   float64
	Max   float64
	Avg   float64
	// Last is the value of the last point of the day in input order.
	Last float64
}

// Analyzer runs aggregations over points in an in-memory duckdb database.
type Analyzer struct {
	mu  sync.Mutex
	db  *sql.DB
	loc *time.Location
}

// Open starts an in-memory duckdb database. Days are evaluated in loc.
func Open(loc *time.Location) (*Analyzer, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Analyzer{db: db, loc: loc}, nil
}

func (a *Analyzer) Close() error {
	return a.db.Close()
}

// FromItems converts numeric items to points. Items whose value is not a number are skipped.
func FromItems(items []database.Item) []Point {
	points := make([]Point, 0, len(items))
	for _, it := range items {
		var v float64
		if err := json.Unmarshal(it.Value, &v); err != nil {
			continue
		}
		points = append(points, Point{Date: it.Date, Value: v})
	}
	return points
}

// Daily returns one summary per day that has points, oldest first.
func (a *Analyzer) Daily(ctx context.Context, points []Point) ([]DailySummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	conn, err := a.load(ctx, points)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT day, count(*), min(value), max(value), avg(value), arg_max(value, seq)
		FROM points
		GROUP BY day
		ORDER BY day
	`)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	response := make([]DailySummary, 0, 32)
	for rows.Next() {
		var (
			day string
			s   DailySummary
		)
		if err := rows.Scan(&day, &s.Count, &s.Min, &s.Max, &s.Avg, &s.Last); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Day, err = time.ParseInLocation(time.DateOnly, day, a.loc)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		response = append(response, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	return response, nil
}

// ExportParquet writes points to a parquet file at path.
func (a *Analyzer) ExportParquet(ctx context.Context, points []Point, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	conn, err := a.load(ctx, points)
	if err != nil {
		return err
	}
	defer conn.Close()

	query := fmt.Sprintf("COPY (SELECT day, value FROM points ORDER BY seq) TO '%s' (FORMAT PARQUET)",
		strings.ReplaceAll(path, "'", "''"))
	if _, err := conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("export parquet: %w", err)
	}
	return nil
}

// load fills a temporary points table on a dedicated connection.
func (a *Analyzer) load(ctx context.Context, points []Point) (*sql.Conn, error) {
	conn, err := a.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("duckdb conn: %w", err)
	}

	_, err = conn.ExecContext(ctx, "CREATE OR REPLACE TEMP TABLE points (seq INTEGER, day VARCHAR, value DOUBLE)")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create points: %w", err)
	}

	stmt, err := conn.PrepareContext(ctx, "INSERT INTO points VALUES (?, ?, ?)")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.ExecContext(ctx, i, p.Date.In(a.loc).Format(time.DateOnly), p.Value); err != nil {
			conn.Close()
			return nil, fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	return conn, nil
}

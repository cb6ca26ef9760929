package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Context is what a Builder needs from the application building the database.
type Context interface {
	DataDir() string
	Logger() *slog.Logger
}

// Schema describes the tables of a database and their version.
type Schema struct {
	Name    string
	Version int
	Models  []any
}

// AppSchema is the schema of the application database.
var AppSchema = Schema{
	Name:    "app",
	Version: 1,
	Models:  []any{&ItemModel{}, &SleepModel{}},
}

// Builder constructs database handles.
type Builder interface {
	Build(ctx Context, schema Schema, name string) (*AppDatabase, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx Context, schema Schema, name string) (*AppDatabase, error)

// Build calls f.
func (f BuilderFunc) Build(ctx Context, schema Schema, name string) (*AppDatabase, error) {
	return f(ctx, schema, name)
}

// SQLiteBuilder opens a sqlite file named after the database in the context's data directory.
type SQLiteBuilder struct {
	// Debug logs every SQL statement through gorm's logger.
	Debug bool
	// InMemory keeps the database in memory; nothing is written to DataDir.
	InMemory bool
}

type schemaInfo struct {
	Name    string `gorm:"primaryKey"`
	Version int
}

func (schemaInfo) TableName() string { return "schema_info" }

// Build opens the database, creates missing tables and records the schema version.
func (b SQLiteBuilder) Build(ctx Context, schema Schema, name string) (*AppDatabase, error) {
	if name == "" {
		return nil, ErrNoName
	}

	logMode := logger.Silent
	if b.Debug {
		logMode = logger.Info
	}

	dsn, path := ":memory:", ""
	if !b.InMemory {
		dir := ctx.DataDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		path = filepath.Join(dir, name+".db")
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if b.InMemory {
		// every pooled connection to :memory: would be a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := migrate(db, schema); err != nil {
		closeGorm(db)
		return nil, err
	}

	ctx.Logger().Info("Database ready", "name", name, "path", path, "schema", schema.Name, "version", schema.Version)

	return newAppDatabase(db, name, path, ctx.Logger()), nil
}

func migrate(db *gorm.DB, schema Schema) error {
	if err := db.AutoMigrate(&schemaInfo{}); err != nil {
		return fmt.Errorf("create schema_info: %w", err)
	}

	var current schemaInfo
	err := db.Where("name = ?", schema.Name).First(&current).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case current.Version > schema.Version:
		return fmt.Errorf("%w: %s on disk is v%d, application is v%d", ErrSchemaTooNew, schema.Name, current.Version, schema.Version)
	}

	if err := db.AutoMigrate(schema.Models...); err != nil {
		return fmt.Errorf("Can't create models %w", err)
	}

	err = db.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&schemaInfo{Name: schema.Name, Version: schema.Version}).Error
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AppDatabase is the handle to the application database.
type AppDatabase struct {
	db     *gorm.DB
	name   string
	path   string
	items  *ItemStore
	sleeps *SleepStore
}

func newAppDatabase(db *gorm.DB, name, path string, log *slog.Logger) *AppDatabase {
	return &AppDatabase{
		db:     db,
		name:   name,
		path:   path,
		items:  NewItemStore(db, log),
		sleeps: NewSleepStore(db),
	}
}

// Name returns the name the database was built with.
func (d *AppDatabase) Name() string { return d.name }

// Path returns the file backing the database, empty when in memory.
func (d *AppDatabase) Path() string { return d.path }

// Items returns the time-stamped key/value store.
func (d *AppDatabase) Items() *ItemStore { return d.items }

// Sleeps returns the sleep record store.
func (d *AppDatabase) Sleeps() *SleepStore { return d.sleeps }

// Gorm exposes the underlying gorm handle.
func (d *AppDatabase) Gorm() *gorm.DB { return d.db }

// Close releases the underlying connections.
func (d *AppDatabase) Close() error {
	return closeGorm(d.db)
}

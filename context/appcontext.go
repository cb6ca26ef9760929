package appcontext

import (
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"

	"demo/database"
)

// DatabaseName is the storage name of the application database.
const DatabaseName = "demo-database"

// Application is the process-wide application object. It owns the lazily built
// database handle and is published through Current once started.
type Application struct {
	host    fyne.App
	builder database.Builder
	logger  *slog.Logger
	dataDir string

	mu sync.Mutex
	db *database.AppDatabase
}

var instance *Application
var once sync.Once

// Option configures an Application.
type Option func(*Application)

// WithDataDir stores the database in dir instead of the host's storage root.
func WithDataDir(dir string) Option {
	return func(a *Application) {
		a.dataDir = dir
	}
}

// New creates the application for host. Nothing is built until OnStart and Database are called.
func New(host fyne.App, builder database.Builder, logger *slog.Logger, opts ...Option) *Application {
	a := &Application{
		host:    host,
		builder: builder,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// OnStart runs the application's startup and publishes it as the process-wide instance.
// Only the first started application is published.
func (a *Application) OnStart() {
	if a.dataDir == "" && a.host != nil {
		a.dataDir = a.host.Storage().RootURI().Path()
	}
	a.logger.Info("Application started", "dataDir", a.dataDir)

	published := false
	once.Do(func() {
		instance = a
		published = true
	})
	if !published && instance != a {
		a.logger.Warn("Application already started, keeping the first instance")
	}
}

// Current returns the started application.
func Current() *Application {
	if instance == nil {
		panic("Error: instance is nil. Should call OnStart first")
	}
	return instance
}

// Database returns the application database, building it on first use.
// The same handle is returned for the life of the process. A failed build is not
// cached: the next call tries again.
func (a *Application) Database() (*database.AppDatabase, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return a.db, nil
	}

	db, err := a.builder.Build(a, database.AppSchema, DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", DatabaseName, err)
	}
	a.db = db
	return db, nil
}

// Host returns the fyne application this application runs in.
func (a *Application) Host() fyne.App { return a.host }

// DataDir is where the database files live.
func (a *Application) DataDir() string { return a.dataDir }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Close closes the database if it was built. The handle is kept, so Database keeps
// returning the same (closed) instance.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

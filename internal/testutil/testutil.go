package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/riot-collector/internal/api"
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	repoPostgres "github.com/dom/riot-collector/internal/repository/postgres"
	"github.com/dom/riot-collector/internal/scheduler"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/dom/riot-collector/internal/service"
	"github.com/dom/riot-collector/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated
// connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_riot_collector"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, kind := range domain.Kinds {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q", string(kind))).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", kind, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		LogLevel:           "debug",
		AdminJWTSecret:     "test-jwt-secret-key-for-testing-only",
		ReleaseCron:        "0 0 * * *",
		ReleaseJobID:       "fb000ab5-ab68-43c9-8328-19f256d3b180",
		PersistConcurrency: 4,
		HTTP: config.HTTPConfig{
			Timeout:       5 * time.Second,
			RatePerSecond: 1000,
			Burst:         100,
			MaxRetries:    1,
			RetryWait:     time.Millisecond,
			RetryMaxWait:  5 * time.Millisecond,
			UserAgent:     "riot-collector-test",
		},
	}
}

// StubPipeline stores a patch record when asked for patch notes and
// reports zero records for every other kind.
type StubPipeline struct {
	Patches repository.PatchRepository
}

func (p StubPipeline) Run(ctx context.Context, kind domain.Kind, v scraper.Version) (int, error) {
	if kind != domain.KindPatch {
		return 0, nil
	}
	if _, err := p.Patches.Add(ctx, &domain.Patch{Version: v.Patch, CreationDate: time.Now().UTC()}); err != nil {
		return 0, err
	}
	return 1, nil
}

// FixedVersion is a service.VersionSource that always reports V.
type FixedVersion struct {
	V scraper.Version
}

func (f FixedVersion) LatestVersion(context.Context) (scraper.Version, error) {
	return f.V, nil
}

// ServerOption customizes NewTestServer
type ServerOption func(*serverDeps)

type serverDeps struct {
	pipeline service.Pipeline
	versions service.VersionSource
}

func WithPipeline(p service.Pipeline) ServerOption {
	return func(d *serverDeps) { d.pipeline = p }
}

func WithVersions(v service.VersionSource) ServerOption {
	return func(d *serverDeps) { d.versions = v }
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	DB        *TestDB
	Repos     *repository.Repositories
	Services  *service.Services
	Hub       *websocket.Hub
	Scheduler *scheduler.Scheduler
	Config    *config.Config
}

// NewTestServer creates a complete test server backed by Postgres
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	ts := newTestServer(t, repoPostgres.NewRepositories(testDB.DB), opts...)
	ts.DB = testDB
	return ts
}

// NewMemoryTestServer creates a complete test server backed by in-memory
// repositories
func NewMemoryTestServer(t *testing.T, opts ...ServerOption) (*TestServer, *Memory) {
	t.Helper()

	mem := NewMemory()
	return newTestServer(t, mem.Repositories(), opts...), mem
}

func newTestServer(t *testing.T, repos *repository.Repositories, opts ...ServerOption) *TestServer {
	t.Helper()

	cfg := TestConfig()
	log := zap.NewNop()

	deps := serverDeps{
		pipeline: StubPipeline{Patches: repos.Patch},
		versions: FixedVersion{V: scraper.Version{Patch: "14.1", Data: "14.1.1"}},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	hub := websocket.NewHub(log)
	go hub.Run()

	services := service.NewServices(repos, deps.versions, deps.pipeline, hub, cfg, log)

	sched := scheduler.New(log)
	if _, err := sched.AddJob(cfg.ReleaseJobID, cfg.ReleaseCron, func(ctx context.Context) {
		services.Release.Release(ctx)
	}); err != nil {
		t.Fatalf("failed to add release job: %v", err)
	}

	router := api.NewRouter(services, hub, repos, sched, cfg, log)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:    server,
		Repos:     repos,
		Services:  services,
		Hub:       hub,
		Scheduler: sched,
		Config:    cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
		sched.Stop(context.Background())
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the release events WebSocket URL
func (ts *TestServer) WebSocketURL() string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return wsURL + "/api/v1/ws"
}

// AdminToken mints a token accepted by the admin routes
func (ts *TestServer) AdminToken(t *testing.T) string {
	t.Helper()

	token, err := ts.Services.Auth.IssueAdminToken("test", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue admin token: %v", err)
	}
	return token
}

package api

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nbapbp.dev/enginepbp/internal/cache"
	"nbapbp.dev/enginepbp/internal/store"
	"nbapbp.dev/enginepbp/internal/testutils"
)

var (
	testServer  *Server
	testDB      *store.DB
	testCleanup func()
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	projectRoot, err := testutils.GetProjectRoot()
	if err != nil {
		panic("failed to get project root: " + err.Error())
	}

	originalDir, err := os.Getwd()
	if err != nil {
		panic("failed to get current directory: " + err.Error())
	}
	if err := os.Chdir(projectRoot); err != nil {
		panic("failed to change to project root: " + err.Error())
	}

	container, err := testutils.NewPostgresContainer(ctx, testutils.WithDatabase("enginepbp_test"))
	if err != nil {
		panic("failed to create postgres container: " + err.Error())
	}

	testCleanup = func() {
		os.Chdir(originalDir)
		if err := container.Terminate(ctx); err != nil {
			panic("failed to terminate container: " + err.Error())
		}
	}

	database, err := store.Connect(container.ConnStr)
	if err != nil {
		testCleanup()
		panic("failed to connect to database: " + err.Error())
	}
	if err := database.Migrate(ctx); err != nil {
		testCleanup()
		panic("failed to run migrations: " + err.Error())
	}

	testDB = database
	cacheClient := cache.NewClient(nil, cache.Config{App: "enginepbp", Env: "test", Version: "v1", Enabled: false, TTLs: cache.DefaultTTLConfig()})
	testServer = NewServer(database, cacheClient, CacheTTLs{Query: time.Minute, Miss: 10 * time.Second}, nil)

	code := m.Run()

	testCleanup()
	os.Exit(code)
}

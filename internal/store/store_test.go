package store

import (
	"context"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"

	"nbapbp.dev/enginepbp/internal/aggregate"
	"nbapbp.dev/enginepbp/internal/cache"
	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/testutils"
)

var testDB *DB

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

	container, err := testutils.NewPostgresContainer(ctx, testutils.WithDatabase("enginepbp_store_test"))
	if err != nil {
		panic("failed to create postgres container: " + err.Error())
	}
	cleanup := func() {
		os.Chdir(originalDir)
		if err := container.Terminate(ctx); err != nil {
			panic("failed to terminate container: " + err.Error())
		}
	}

	database, err := Connect(container.ConnStr)
	if err != nil {
		cleanup()
		panic("failed to connect to database: " + err.Error())
	}
	if err := database.Migrate(ctx); err != nil {
		cleanup()
		panic("failed to run migrations: " + err.Error())
	}
	testDB = database

	code := m.Run()

	cleanup()
	os.Exit(code)
}

func sampleGame() (core.GameID, []*core.Event, []*core.Possession) {
	gameID := core.GameID("0022300099")
	made := &core.Event{GameID: gameID, EventNum: 2, Order: 1, Type: core.FieldGoal, Period: 1, Clock: "11:40", TeamID: 100, Player1ID: 1, ShotValue: 2}
	start := &core.Event{GameID: gameID, EventNum: 1, Order: 0, Type: core.StartOfPeriod, Period: 1, Clock: "12:00"}
	events := []*core.Event{start, made}

	possession := &core.Possession{
		GameID:              gameID,
		Period:              1,
		Number:              1,
		Events:              []*core.Event{start, made},
		StartTime:           "12:00",
		EndTime:             "11:40",
		OffenseTeamID:       100,
		PossessionStartType: core.OffDeadball,
	}
	return gameID, events, []*core.Possession{possession}
}

func TestSaveGameAndReadBackPossessions(t *testing.T) {
	gameID, events, possessions := sampleGame()
	ps := NewPossessionStore(testDB)

	if err := ps.SaveGame(context.Background(), gameID, events, possessions); err != nil {
		t.Fatalf("SaveGame returned error: %v", err)
	}

	rows, err := ps.Possessions(context.Background(), gameID)
	if err != nil {
		t.Fatalf("Possessions returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 persisted possession, got %d", len(rows))
	}
	if rows[0].OffenseTeamID != 100 {
		t.Errorf("expected offense team 100, got %d", rows[0].OffenseTeamID)
	}
}

func TestSaveGameIsReplaceNotAppend(t *testing.T) {
	gameID, events, possessions := sampleGame()
	ps := NewPossessionStore(testDB)
	ctx := context.Background()

	if err := ps.SaveGame(ctx, gameID, events, possessions); err != nil {
		t.Fatalf("first SaveGame returned error: %v", err)
	}
	if err := ps.SaveGame(ctx, gameID, events, possessions); err != nil {
		t.Fatalf("second SaveGame returned error: %v", err)
	}

	rows, err := ps.Possessions(ctx, gameID)
	if err != nil {
		t.Fatalf("Possessions returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected re-saving the same game to replace rather than duplicate rows, got %d", len(rows))
	}
}

func TestEventStatsByGameReflectsPersistedEvents(t *testing.T) {
	gameID, events, possessions := sampleGame()
	ps := NewPossessionStore(testDB)
	ctx := context.Background()

	if err := ps.SaveGame(ctx, gameID, events, possessions); err != nil {
		t.Fatalf("SaveGame returned error: %v", err)
	}

	stats, err := ps.EventStatsByGame(ctx, gameID)
	if err != nil {
		t.Fatalf("EventStatsByGame returned error: %v", err)
	}

	found := false
	for _, s := range stats {
		if s.StatKey == core.StatFGM && s.PlayerID == 1 {
			found = true
		}
	}
	if !found {
		t.Error("expected the persisted made field goal to produce an fgm stat record")
	}
}

func TestAggregateCacheComputesOnMissWithCacheDisabled(t *testing.T) {
	client := cache.NewClient(nil, cache.Config{App: "enginepbp", Env: "test", Version: "v1", Enabled: false, TTLs: cache.DefaultTTLConfig()})
	ac := NewAggregateCache(client, 0, 0)

	calls := 0
	compute := func() ([]aggregate.Row, error) {
		calls++
		return []aggregate.Row{{Fields: map[aggregate.Key]string{aggregate.ByStatKey: core.StatFGM}, StatValue: 1}}, nil
	}

	rows, err := ac.GetOrCompute(context.Background(), "0022300099", []aggregate.Key{aggregate.ByStatKey}, compute)
	if err != nil {
		t.Fatalf("GetOrCompute returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row from compute, got %d", len(rows))
	}
	if calls != 1 {
		t.Errorf("expected compute to run exactly once, ran %d times", calls)
	}
}

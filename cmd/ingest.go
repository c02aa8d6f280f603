package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nbapbp.dev/enginepbp/internal/config"
	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/echo"
	"nbapbp.dev/enginepbp/internal/engine"
	"nbapbp.dev/enginepbp/internal/enrich"
	"nbapbp.dev/enginepbp/internal/normalize"
	"nbapbp.dev/enginepbp/internal/starters"
	"nbapbp.dev/enginepbp/internal/store"
)

// IngestCmd runs the engine over a game's raw rows read from disk and
// persists the result, the CLI-side equivalent of the HTTP ingest route
// in §4.11, for batch/offline use against the §4.9 normalized-row cache.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <game_id> <rows.json>",
		Short: "Run the engine over a game's raw rows and persist the result",
		Long:  "Reads raw play-by-play rows (and optionally a boxscore) from JSON files, runs the full pipeline, and persists the canonical events and split possessions.",
		Args:  cobra.ExactArgs(2),
		RunE:  runIngest,
	}

	cmd.Flags().String("boxscore", "", "path to a boxscore JSON file (array of {team_id, player_id, start_position})")
	cmd.Flags().String("league", "nba", "league (nba, wnba, gleague)")
	cmd.Flags().Int("season", 0, "season year, for shot-clock rules")
	cmd.Flags().Bool("save-normalized", false, "cache the raw rows under --cache-dir for reuse (§4.9)")
	cmd.Flags().String("cache-dir", "./data", "base directory for the normalized-row cache")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	gameID := core.GameID(args[0])
	rowsPath := args[1]

	echo.Header("Ingest")
	echo.Infof("Game: %s", gameID)

	rows, err := readRows(rowsPath)
	if err != nil {
		return fmt.Errorf("failed to read rows file: %w", err)
	}

	boxscorePath, _ := cmd.Flags().GetString("boxscore")
	var boxscore []starters.BoxscorePlayer
	if boxscorePath != "" {
		boxscore, err = readBoxscore(boxscorePath)
		if err != nil {
			return fmt.Errorf("failed to read boxscore file: %w", err)
		}
	}

	leagueFlag, _ := cmd.Flags().GetString("league")
	seasonFlag, _ := cmd.Flags().GetInt("season")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out, err := engine.Run(engine.Input{
		GameID:     gameID,
		Rows:       rows,
		Boxscore:   boxscore,
		Overrides:  enrich.Overrides{},
		League:     core.League(leagueFlag),
		SeasonYear: seasonFlag,
		Config: engine.Config{
			ReboundStrictMode:  cfg.Engine.ReboundStrictMode,
			MaxRetries:         cfg.Engine.MaxRetries,
			StartersStrictMode: cfg.Engine.StartersStrictMode,
			Logger:             log.Default(),
		},
	})
	if err != nil {
		return fmt.Errorf("engine run failed: %w", err)
	}

	echo.Infof("Events: %d", len(out.Events))
	echo.Infof("Possessions: %d", len(out.Possessions))
	echo.Infof("Repairs applied: %d", len(out.RepairLog))

	saveNormalized, _ := cmd.Flags().GetBool("save-normalized")
	if saveNormalized {
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		if err := store.WriteNormalizedRows(cacheDir, "cli", gameID, rows); err != nil {
			echo.Errorf("failed to cache normalized rows: %v", err)
		}
	}

	db, err := store.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	possessions := store.NewPossessionStore(db)
	ctx := context.Background()
	if err := possessions.SaveGame(ctx, gameID, out.Events, out.Possessions); err != nil {
		return fmt.Errorf("failed to persist game: %w", err)
	}

	echo.Success("✓ Ingest complete")
	return nil
}

func readRows(path string) ([]normalize.RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []normalize.RawRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	return rows, nil
}

func readBoxscore(path string) ([]starters.BoxscorePlayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []starters.BoxscorePlayer
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal boxscore: %w", err)
	}
	return rows, nil
}

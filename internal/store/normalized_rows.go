package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nbapbp.dev/enginepbp/internal/core"
	"nbapbp.dev/enginepbp/internal/normalize"
)

// normalizedCacheFile is the JSON written for spec.md §6's optional
// persisted-state layout, grounded on original_source/nba_stats_parser/
// nba_stats_parser/fetcher.py's _save_to_cache (provider+game_id keyed
// JSON blobs). The raw rows are stored as-is under the "resultSets" key;
// they are not laid out as name/headers/rowSet tables.
type normalizedCacheFile struct {
	Provider string            `json:"provider"`
	GameID   core.GameID       `json:"game_id"`
	Rows     []normalize.RawRow `json:"resultSets"`
}

// WriteNormalizedRows writes the raw rows used to produce a game's
// canonical events to <dir>/pbp/<provider>_<game_id>.json. Called by the
// CLI's ingest command after a successful normalize pass; never called
// from internal/normalize itself, which stays offline/pure (§4.9).
func WriteNormalizedRows(dir, provider string, gameID core.GameID, rows []normalize.RawRow) error {
	pbpDir := filepath.Join(dir, "pbp")
	if err := os.MkdirAll(pbpDir, 0o755); err != nil {
		return fmt.Errorf("create pbp cache directory: %w", err)
	}

	path := filepath.Join(pbpDir, fmt.Sprintf("%s_%s.json", provider, gameID))
	data, err := json.Marshal(normalizedCacheFile{Provider: provider, GameID: gameID, Rows: rows})
	if err != nil {
		return fmt.Errorf("marshal normalized rows: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadNormalizedRows reads back a previously cached row set, or returns
// (nil, false, nil) if no cache file exists for (provider, gameID).
func ReadNormalizedRows(dir, provider string, gameID core.GameID) ([]normalize.RawRow, bool, error) {
	path := filepath.Join(dir, "pbp", fmt.Sprintf("%s_%s.json", provider, gameID))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read normalized rows cache: %w", err)
	}

	var cached normalizedCacheFile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("unmarshal normalized rows cache: %w", err)
	}

	return cached.Rows, true, nil
}

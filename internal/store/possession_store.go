package store

import (
	"context"
	"fmt"

	"nbapbp.dev/enginepbp/internal/core"
)

// PossessionStore persists one row per core.Event and one row per
// core.Possession for a processed game (§4.10). It is populated by the
// CLI/API layer after engine.Run returns; no component in internal/core
// through internal/aggregate performs I/O.
type PossessionStore struct {
	db *DB
}

// NewPossessionStore wraps an already-migrated DB connection.
func NewPossessionStore(db *DB) *PossessionStore {
	return &PossessionStore{db: db}
}

// SaveGame persists a game's canonical events and possessions, replacing
// any prior rows for that game_id.
func (s *PossessionStore) SaveGame(ctx context.Context, gameID core.GameID, events []*core.Event, possessions []*core.Possession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save-game transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE game_id = $1`, string(gameID)); err != nil {
		return fmt.Errorf("clear existing events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM possessions WHERE game_id = $1`, string(gameID)); err != nil {
		return fmt.Errorf("clear existing possessions: %w", err)
	}

	possessionNumber := map[int]int{}
	for _, p := range possessions {
		for _, e := range p.Events {
			possessionNumber[e.EventNum] = p.Number
		}
	}

	for _, e := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (
				game_id, event_num, "order", event_type, period, clock, seconds_remaining,
				description, team_id, player1_id, player2_id, player3_id, shot_clock, possession_number
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`,
			string(e.GameID), e.EventNum, e.Order, int(e.Type), e.Period, e.Clock, e.SecondsRemaining,
			e.Description, int64(e.TeamID), int64(e.Player1ID), int64(e.Player2ID), int64(e.Player3ID),
			e.ShotClock, possessionNumber[e.EventNum],
		)
		if err != nil {
			return fmt.Errorf("insert event %d: %w", e.EventNum, err)
		}
	}

	for _, p := range possessions {
		first, last := p.FirstEvent(), p.LastEvent()
		if first == nil || last == nil {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO possessions (
				game_id, period, number, start_time, end_time, start_score_margin,
				offense_team_id, possession_start_type, first_event_num, last_event_num
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			string(p.GameID), p.Period, p.Number, p.StartTime, p.EndTime, p.StartScoreMargin,
			int64(p.OffenseTeamID), string(p.PossessionStartType), first.EventNum, last.EventNum,
		)
		if err != nil {
			return fmt.Errorf("insert possession (period=%d number=%d): %w", p.Period, p.Number, err)
		}
	}

	return tx.Commit()
}

// PossessionRow is the read-back shape for GET .../possessions (§4.11),
// deliberately flatter than core.Possession since it carries no back-links.
type PossessionRow struct {
	Period              int
	Number              int
	StartTime           string
	EndTime             string
	StartScoreMargin    int
	OffenseTeamID       core.TeamID
	PossessionStartType string
	FirstEventNum       int
	LastEventNum        int
}

// Possessions reads back the persisted possessions for a game, ordered by
// period then number.
func (s *PossessionStore) Possessions(ctx context.Context, gameID core.GameID) ([]PossessionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT period, number, start_time, end_time, start_score_margin,
		       offense_team_id, possession_start_type, first_event_num, last_event_num
		FROM possessions
		WHERE game_id = $1
		ORDER BY period, number
	`, string(gameID))
	if err != nil {
		return nil, fmt.Errorf("query possessions: %w", err)
	}
	defer rows.Close()

	var out []PossessionRow
	for rows.Next() {
		var r PossessionRow
		var offenseTeamID int64
		if err := rows.Scan(&r.Period, &r.Number, &r.StartTime, &r.EndTime, &r.StartScoreMargin,
			&offenseTeamID, &r.PossessionStartType, &r.FirstEventNum, &r.LastEventNum); err != nil {
			return nil, fmt.Errorf("scan possession row: %w", err)
		}
		r.OffenseTeamID = core.TeamID(offenseTeamID)
		out = append(out, r)
	}
	return out, rows.Err()
}

// EventStatsByGame loads a game's persisted events, decodes their
// event-level stats, and returns the flat StatRecord slice C9 groups over.
func (s *PossessionStore) EventStatsByGame(ctx context.Context, gameID core.GameID) ([]core.StatRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, period, team_id, player1_id, player2_id, player3_id
		FROM events
		WHERE game_id = $1
		ORDER BY "order"
	`, string(gameID))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []core.StatRecord
	for rows.Next() {
		var eventType int
		var period int
		var teamID, p1, p2, p3 int64
		if err := rows.Scan(&eventType, &period, &teamID, &p1, &p2, &p3); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		e := &core.Event{
			GameID: gameID, Type: core.EventType(eventType), Period: period,
			TeamID: core.TeamID(teamID), Player1ID: core.PlayerID(p1), Player2ID: core.PlayerID(p2), Player3ID: core.PlayerID(p3),
		}
		stats, err := e.EventStats()
		if err != nil {
			continue
		}
		out = append(out, stats...)
	}
	return out, rows.Err()
}

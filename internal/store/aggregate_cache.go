package store

import (
	"context"
	"encoding/json"
	"time"

	"nbapbp.dev/enginepbp/internal/aggregate"
	"nbapbp.dev/enginepbp/internal/cache"
	"nbapbp.dev/enginepbp/internal/core"
)

// AggregateCache caches the JSON-encoded result of an aggregate.Query
// keyed by a hash of (game_id, group-by key set), reusing the teacher's
// cache-key/TTL/jitter/singleflight machinery (§4.10). The teacher's
// Entity/Negative TTL classes are repurposed here as Query/Miss.
type AggregateCache struct {
	client  *cache.Client
	queryTTL time.Duration
	missTTL  time.Duration
}

// NewAggregateCache wraps a cache.Client with the Query/Miss TTL classes.
func NewAggregateCache(client *cache.Client, queryTTL, missTTL time.Duration) *AggregateCache {
	return &AggregateCache{client: client, queryTTL: queryTTL, missTTL: missTTL}
}

// GetOrCompute returns the cached aggregation rows for (gameID, keys),
// recomputing and storing them via compute on a cache miss. compute
// typically reads persisted stats via PossessionStore and calls
// aggregate.GroupRecords.
func (c *AggregateCache) GetOrCompute(ctx context.Context, gameID core.GameID, keys []aggregate.Key, compute func() ([]aggregate.Row, error)) ([]aggregate.Row, error) {
	key := c.client.KeyPrefix(cache.KeyTypeList, "stats") + ":" + cache.HashParams(groupByParams(gameID, keys))

	val, err := c.client.GetOrCompute(ctx, key, c.queryTTL, func() (any, error) {
		return compute()
	})
	if err != nil {
		return nil, err
	}

	switch rows := val.(type) {
	case []aggregate.Row:
		return rows, nil
	default:
		// round-tripped through Redis as JSON; re-decode into the typed shape.
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		var out []aggregate.Row
		if err := json.Unmarshal(encoded, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func groupByParams(gameID core.GameID, keys []aggregate.Key) map[string]string {
	params := map[string]string{"game_id": string(gameID)}
	for i, k := range keys {
		params[string(rune('a'+i))] = string(k)
	}
	return params
}

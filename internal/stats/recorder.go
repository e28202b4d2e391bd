package stats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys
const (
	playerStatsKey = "schnapsen:player:stats:"
	scoreboardKey  = "schnapsen:leaderboard:points"
)

// PlayerStats accumulates one player's results across matches.
type PlayerStats struct {
	PlayerID string `json:"player_id"`

	RoundsPlayed int `json:"rounds_played"`
	RoundWins    int `json:"round_wins"`
	RoundLosses  int `json:"round_losses"`

	MatchesPlayed int `json:"matches_played"`
	MatchWins     int `json:"match_wins"`
	MatchLosses   int `json:"match_losses"`

	// Points is the cumulative round points won, the scoreboard ranking
	// criterion.
	Points int `json:"points"`

	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// Entry is one scoreboard row.
type Entry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
}

// Recorder persists match outcomes reported by the projector. Purely
// observational: it consumes round_result/final_result events, the game
// itself never reads it back.
type Recorder struct {
	redis *redis.Client
}

// NewRecorder creates a recorder on an existing Redis client.
func NewRecorder(client *redis.Client) *Recorder {
	return &Recorder{redis: client}
}

// PlayerStats returns the stored stats for playerID, or nil when the
// player has never been recorded.
func (r *Recorder) PlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	data, err := r.redis.Get(ctx, playerStatsKey+playerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Recorder) saveStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, playerStatsKey+stats.PlayerID, data, 0).Err(); err != nil {
		return err
	}
	return r.redis.ZAdd(ctx, scoreboardKey, redis.Z{
		Score:  float64(stats.Points),
		Member: stats.PlayerID,
	}).Err()
}

func (r *Recorder) getOrCreateStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	stats, err := r.PlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &PlayerStats{
			PlayerID:  playerID,
			CreatedAt: time.Now().Unix(),
		}
	}
	return stats, nil
}

// RecordRound records one round outcome for playerID. points is the round
// value announced by the server and only counts when won.
func (r *Recorder) RecordRound(ctx context.Context, playerID string, won bool, points int) error {
	stats, err := r.getOrCreateStats(ctx, playerID)
	if err != nil {
		return err
	}

	stats.RoundsPlayed++
	if won {
		stats.RoundWins++
		stats.Points += points
	} else {
		stats.RoundLosses++
	}
	stats.LastPlayedAt = time.Now().Unix()

	return r.saveStats(ctx, stats)
}

// RecordMatch records one match outcome for playerID.
func (r *Recorder) RecordMatch(ctx context.Context, playerID string, won bool) error {
	stats, err := r.getOrCreateStats(ctx, playerID)
	if err != nil {
		return err
	}

	stats.MatchesPlayed++
	if won {
		stats.MatchWins++
	} else {
		stats.MatchLosses++
	}
	stats.LastPlayedAt = time.Now().Unix()

	return r.saveStats(ctx, stats)
}

// Rank returns playerID's 1-based scoreboard rank, or -1 when unranked.
func (r *Recorder) Rank(ctx context.Context, playerID string) (int64, error) {
	rank, err := r.redis.ZRevRank(ctx, scoreboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil
}

// Top returns the limit highest-ranked players.
func (r *Recorder) Top(ctx context.Context, limit int) ([]Entry, error) {
	results, err := r.redis.ZRevRangeWithScores(ctx, scoreboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for i, result := range results {
		playerID, ok := result.Member.(string)
		if !ok {
			continue
		}

		stats, err := r.PlayerStats(ctx, playerID)
		if err != nil || stats == nil {
			continue
		}

		entries = append(entries, Entry{
			Rank:     i + 1,
			PlayerID: playerID,
			Points:   int(result.Score),
			Wins:     stats.RoundWins,
		})
	}
	return entries, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ibrhsahin418-alt/cetele/internal/domain/leaderboard"
	"github.com/ibrhsahin418-alt/cetele/internal/domain/shared"
)

// LeaderboardCache caches group boards using Redis sorted sets. It implements
// leaderboard.Cache.
//
// Architecture:
//   - Sorted set "cetele:board:{group}:xp" stores studentID -> XP
//   - Hash "cetele:board:{group}:info" stores studentID -> Entry JSON
//
// This gives O(log N) rank lookups and O(log N + M) range reads while the
// hash keeps the denormalized row data next to the scores.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a LeaderboardCache on top of a generic Cache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// cachedEntry is the wire form of a board row.
type cachedEntry struct {
	Rank         int       `json:"rank"`
	StudentID    string    `json:"student_id"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url"`
	XP           int       `json:"xp"`
	Streak       int       `json:"streak"`
	RankTitle    string    `json:"rank_title"`
	VisualEffect string    `json:"visual_effect,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toCachedEntry(e *leaderboard.Entry) cachedEntry {
	return cachedEntry{
		Rank:         int(e.Rank),
		StudentID:    e.StudentID.String(),
		Name:         e.Name,
		AvatarURL:    e.AvatarURL,
		XP:           e.XP,
		Streak:       e.Streak,
		RankTitle:    e.RankTitle,
		VisualEffect: e.VisualEffect,
		UpdatedAt:    e.UpdatedAt,
	}
}

func (c cachedEntry) toDomain() *leaderboard.Entry {
	return &leaderboard.Entry{
		Rank:         shared.Rank(c.Rank),
		StudentID:    shared.StudentID(c.StudentID),
		Name:         c.Name,
		AvatarURL:    c.AvatarURL,
		XP:           c.XP,
		Streak:       c.Streak,
		RankTitle:    c.RankTitle,
		VisualEffect: c.VisualEffect,
		UpdatedAt:    c.UpdatedAt,
	}
}

func xpKey(groupID shared.GroupID) string {
	return BoardKey(groupID.String()) + ":xp"
}

func infoKey(groupID shared.GroupID) string {
	return BoardKey(groupID.String()) + ":info"
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// GetBoard implements leaderboard.Cache. Rows come back in score order from
// the sorted set; ranks are reassigned by Board.Sort so ties share a rank.
func (l *LeaderboardCache) GetBoard(ctx context.Context, groupID shared.GroupID) (*leaderboard.Board, error) {
	ids, err := l.cache.Client().ZRevRange(ctx, xpKey(groupID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, leaderboard.ErrEmptyBoard
	}

	rows, err := l.cache.Client().HMGet(ctx, infoKey(groupID), ids...).Result()
	if err != nil {
		return nil, err
	}

	board := leaderboard.NewBoard(groupID)
	for _, row := range rows {
		str, ok := row.(string)
		if !ok {
			continue
		}
		var ce cachedEntry
		if err := json.Unmarshal([]byte(str), &ce); err != nil {
			continue
		}
		if err := board.Add(ce.toDomain()); err != nil {
			continue
		}
	}

	if board.Count() == 0 {
		return nil, leaderboard.ErrEmptyBoard
	}
	board.Sort()
	return board, nil
}

// SetBoard implements leaderboard.Cache. The whole board is replaced
// atomically so a partial write never serves stale rows next to fresh ones.
func (l *LeaderboardCache) SetBoard(ctx context.Context, board *leaderboard.Board, ttl time.Duration) error {
	if board == nil {
		return ErrCacheNilValue
	}
	if ttl <= 0 {
		ttl = TTLBoardCache
	}

	xp := xpKey(board.GroupID)
	info := infoKey(board.GroupID)

	pipe := l.cache.Client().TxPipeline()
	pipe.Del(ctx, xp, info)

	entries := board.All()
	if len(entries) > 0 {
		zMembers := make([]redis.Z, 0, len(entries))
		hashData := make(map[string]interface{}, len(entries))

		for _, entry := range entries {
			data, err := json.Marshal(toCachedEntry(entry))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
			}
			zMembers = append(zMembers, redis.Z{
				Score:  float64(entry.XP),
				Member: entry.StudentID.String(),
			})
			hashData[entry.StudentID.String()] = data
		}

		pipe.ZAdd(ctx, xp, zMembers...)
		pipe.HSet(ctx, info, hashData)
		pipe.Expire(ctx, xp, ttl)
		pipe.Expire(ctx, info, ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// GetRank implements leaderboard.Cache.
func (l *LeaderboardCache) GetRank(ctx context.Context, groupID shared.GroupID, studentID shared.StudentID) (*leaderboard.Entry, error) {
	data, err := l.cache.Client().HGet(ctx, infoKey(groupID), studentID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, leaderboard.ErrEmptyBoard
		}
		return nil, err
	}

	var ce cachedEntry
	if err := json.Unmarshal(data, &ce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return ce.toDomain(), nil
}

// Invalidate implements leaderboard.Cache.
func (l *LeaderboardCache) Invalidate(ctx context.Context, groupID shared.GroupID) error {
	return l.cache.Delete(ctx, xpKey(groupID), infoKey(groupID))
}

// InvalidateAll implements leaderboard.Cache.
func (l *LeaderboardCache) InvalidateAll(ctx context.Context) error {
	return l.cache.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}

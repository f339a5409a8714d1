package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.ShareCode), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSessionByShareCode(ctx context.Context, code model.ShareCode) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession runs the mutator inside an optimistic WATCH/MULTI transaction
// keyed on the session record, the same scheme UpdatePlayer uses, so
// concurrent membership changes re-read and re-apply instead of overwriting
// each other.
func (s *Storage) UpdateSession(ctx context.Context, code model.ShareCode, mutate storage.SessionMutator) (*model.Session, error) {
	key := sessionKey(code)
	var updated *model.Session

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}

		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		if err := mutate(&session); err != nil {
			return err
		}

		out, err := json.Marshal(&session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.cfg.SessionTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &session
		return nil
	}

	for i := 0; i < s.cfg.MaxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // Another writer touched the record; re-read and retry
		}
		return nil, err
	}

	return nil, fmt.Errorf("session update contention exceeded %d retries", s.cfg.MaxUpdateRetries)
}

func (s *Storage) SessionExists(ctx context.Context, code model.ShareCode) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, playerKey(player.ID), data, s.cfg.PlayerTTL).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetSessionPlayers(ctx context.Context, code model.ShareCode) ([]*model.Player, error) {
	session, err := s.GetSessionByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if len(session.Players) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(session.Players))
	for i, pid := range session.Players {
		keys[i] = playerKey(pid)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Player record may have expired
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}

	return players, nil
}

// UpdatePlayer runs the mutator inside an optimistic WATCH/MULTI transaction
// keyed on the player record, retrying on contention. The history append and
// status update therefore commit as one unit; a concurrent writer forces a
// re-read and re-apply, never an interleaved write.
func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, mutate storage.PlayerMutator) (*model.Player, error) {
	key := playerKey(id)
	var updated *model.Player

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}

		var player model.Player
		if err := json.Unmarshal(data, &player); err != nil {
			return err
		}

		if err := mutate(&player); err != nil {
			return err
		}
		player.Version++

		out, err := json.Marshal(&player)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.cfg.PlayerTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &player
		return nil
	}

	for i := 0; i < s.cfg.MaxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue // Another writer touched the record; re-read and retry
		}
		return nil, err
	}

	return nil, fmt.Errorf("player update contention exceeded %d retries", s.cfg.MaxUpdateRetries)
}

// Request index

func (s *Storage) IndexRequest(ctx context.Context, id model.RequestID, playerID model.PlayerID) error {
	return s.client.Set(ctx, requestIndexKey(id), string(playerID), s.cfg.RequestIndexTTL).Err()
}

func (s *Storage) LookupRequest(ctx context.Context, id model.RequestID) (model.PlayerID, error) {
	playerID, err := s.client.Get(ctx, requestIndexKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrInvalidRequestID
		}
		return "", err
	}
	return model.PlayerID(playerID), nil
}

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	mKey := matchKey(match.ID)
	indexKey := sessionMatchesIndexKey(match.ShareCode)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, mKey, data, s.cfg.MatchTTL)
	pipe.SAdd(ctx, indexKey, mKey)
	pipe.Expire(ctx, indexKey, s.cfg.MatchTTL) // Keep index TTL in sync
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) GetSessionMatches(ctx context.Context, code model.ShareCode) ([]*model.Match, error) {
	indexKey := sessionMatchesIndexKey(code)

	matchKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(matchKeys) == 0 {
		return []*model.Match{}, nil
	}

	values, err := s.client.MGet(ctx, matchKeys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Match may have expired
		}
		var match model.Match
		if err := json.Unmarshal([]byte(val.(string)), &match); err != nil {
			continue // Skip invalid data
		}
		matches = append(matches, &match)
	}

	return matches, nil
}

// Rest-expiry index

func (s *Storage) AddRestExpiry(ctx context.Context, id model.PlayerID, expiresAt time.Time) error {
	return s.client.ZAdd(ctx, restExpiryIndexKey(), redis.Z{
		Score:  float64(expiresAt.UnixMilli()),
		Member: string(id),
	}).Err()
}

func (s *Storage) RemoveRestExpiry(ctx context.Context, id model.PlayerID) error {
	return s.client.ZRem(ctx, restExpiryIndexKey(), string(id)).Err()
}

func (s *Storage) DueRestExpiries(ctx context.Context, now time.Time) ([]model.PlayerID, error) {
	members, err := s.client.ZRangeByScore(ctx, restExpiryIndexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(now.UnixMilli(), 10), // strictly earlier than now
	}).Result()
	if err != nil {
		return nil, err
	}

	due := make([]model.PlayerID, len(members))
	for i, m := range members {
		due[i] = model.PlayerID(m)
	}
	return due, nil
}

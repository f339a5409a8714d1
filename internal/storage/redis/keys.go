package redis

import (
	"fmt"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

// Key prefix for all session-related data
const keyPrefix = "bgroup"

// sessionKey returns the Redis key for a Session
func sessionKey(code model.ShareCode) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, code)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// requestIndexKey returns the Redis key for the request id -> player id index
func requestIndexKey(id model.RequestID) string {
	return fmt.Sprintf("%s:idx:request:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// sessionMatchesIndexKey returns the Redis key for the SET of a session's matches
func sessionMatchesIndexKey(code model.ShareCode) string {
	return fmt.Sprintf("%s:idx:session_matches:%s", keyPrefix, code)
}

// restExpiryIndexKey returns the Redis key for the ZSET of pending rest expiries,
// scored by expiry time
func restExpiryIndexKey() string {
	return fmt.Sprintf("%s:idx:rest_expiry", keyPrefix)
}

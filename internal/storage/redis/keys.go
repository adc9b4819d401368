package redis

import (
	"fmt"

	"github.com/google/uuid"
)

// Key prefix for all stats-related data
const keyPrefix = "pstats"

// Key generation functions for each entity type. Stat ids may not
// contain "." so a composed key can never collide with another stat's.

// profileKey returns the Redis key for a PlayerProfile
func profileKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// statKey returns the Redis key for one player stat record
func statKey(player uuid.UUID, namespace, statID string) string {
	return fmt.Sprintf("%s:stat:%s:%s.%s", keyPrefix, player, namespace, statID)
}

// statsIndexKey returns the Redis key for the SET of a player's stat keys
// in one namespace
func statsIndexKey(player uuid.UUID, namespace string) string {
	return fmt.Sprintf("%s:idx:stats:%s:%s", keyPrefix, player, namespace)
}

// namespaceIndexKey returns the Redis key for the SET of namespaces a
// player has stats in
func namespaceIndexKey(player uuid.UUID) string {
	return fmt.Sprintf("%s:idx:namespaces:%s", keyPrefix, player)
}

// globalStatKey returns the Redis key for one global stat record
func globalStatKey(namespace, statID string) string {
	return fmt.Sprintf("%s:global:%s.%s", keyPrefix, namespace, statID)
}

// globalIndexKey returns the Redis key for the SET of a namespace's
// global stat keys
func globalIndexKey(namespace string) string {
	return fmt.Sprintf("%s:idx:global:%s", keyPrefix, namespace)
}

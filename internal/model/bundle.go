package model

import "github.com/google/uuid"

// StatsBundle is one upload request: every statistic a minigame server
// recorded for a single namespace, usually flushed at the end of a match.
type StatsBundle struct {
	ServerName string      `json:"server_name"`
	Namespace  string      `json:"namespace"`
	Stats      BundleStats `json:"stats"`
}

// BundleStats splits a bundle into per-player sections and an optional
// global section not attached to any player.
type BundleStats struct {
	Global  map[string]UploadStat               `json:"global,omitempty"`
	Players map[uuid.UUID]map[string]UploadStat `json:"players"`
}

// Len is the total number of statistics in the bundle
func (s BundleStats) Len() int {
	n := len(s.Global)
	for _, stats := range s.Players {
		n += len(stats)
	}
	return n
}

package handlers

import "github.com/cespare/xxhash/v2"

// partitionIndex picks one of n workers for key. Equal keys always land on
// the same worker.
func partitionIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(n))
}

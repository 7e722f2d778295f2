// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsync

import (
	"sync"
)

const (
	// DefaultRecentSyncWindow is the default number of completed sync
	// batches the gate considers when deciding whether the node is close
	// to the network tip.
	DefaultRecentSyncWindow = 2

	// DefaultNearTipThreshold is the default batch size below which a
	// completed sync batch counts as evidence that the node is close to
	// the network tip.  A syncer that is far behind requests large batches
	// of blocks; near the tip the batches shrink to a handful of blocks.
	DefaultNearTipThreshold = 20
)

// RecentSyncLengths is a sliding window over the sizes of recently completed
// sync batches.  The block syncer pushes the length of every batch it
// completes; SyncStatus reads the window to decide whether the node is close
// to the network tip.
//
// RecentSyncLengths is safe for concurrent access: the syncer writes from its
// own goroutine while the mempool service reads during request handling.
type RecentSyncLengths struct {
	mtx     sync.Mutex
	lengths []int
	window  int
}

// NewRecentSyncLengths returns an empty window holding up to
// DefaultRecentSyncWindow batch lengths.
func NewRecentSyncLengths() *RecentSyncLengths {
	return &RecentSyncLengths{
		window: DefaultRecentSyncWindow,
	}
}

// Push records the size of a newly completed sync batch, discarding the
// oldest recorded size once the window is full.
func (r *RecentSyncLengths) Push(length int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.lengths = append(r.lengths, length)
	if len(r.lengths) > r.window {
		r.lengths = r.lengths[len(r.lengths)-r.window:]
	}

	log.Tracef("Recorded sync batch of %d blocks", length)
}

// snapshot returns a copy of the recorded batch lengths, oldest first.
func (r *RecentSyncLengths) snapshot() []int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	lengths := make([]int, len(r.lengths))
	copy(lengths, r.lengths)
	return lengths
}

// SyncStatus answers whether the node is currently close to the network tip,
// based on the sizes of recently completed sync batches.
type SyncStatus struct {
	recent    *RecentSyncLengths
	threshold int
}

// NewSyncStatus returns a SyncStatus and the RecentSyncLengths window it
// reads from.  The window is handed to the block syncer, which records
// completed batch sizes into it.
func NewSyncStatus() (*SyncStatus, *RecentSyncLengths) {
	recent := NewRecentSyncLengths()
	status := &SyncStatus{
		recent:    recent,
		threshold: DefaultNearTipThreshold,
	}
	return status, recent
}

// CloseToTip returns true when the window is full and every recent sync batch
// was below the near-tip threshold.  An empty or partially filled window
// means syncing has not settled yet and the node is treated as behind.
func (s *SyncStatus) CloseToTip() bool {
	lengths := s.recent.snapshot()
	if len(lengths) < s.recent.window {
		return false
	}
	for _, length := range lengths {
		if length >= s.threshold {
			return false
		}
	}
	return true
}

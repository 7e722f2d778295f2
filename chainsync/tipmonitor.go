// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsync

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// TipChange describes a single change of the best chain tip.  A change is
// reported for every block connected to the best chain as well as for the
// winning side of a reorganization.
type TipChange struct {
	// Hash is the hash of the new best block.
	Hash chainhash.Hash

	// Height is the height of the new best block.
	Height int32

	// MinedTxns contains the hashes of the transactions included in the
	// new best block.  The mempool uses these to drop entries that have
	// been mined out from under it.
	MinedTxns []chainhash.Hash
}

// TipEventSource is the contract the chain backend must satisfy for the tip
// monitor.  The channel returned by TipChanges must be buffered by the
// implementation; the monitor only ever performs non-blocking receives on it.
type TipEventSource interface {
	// BestTip returns the current best tip.
	BestTip() TipChange

	// TipChanges returns the channel on which tip changes are delivered.
	TipChanges() <-chan TipChange
}

// TipMonitor observes a stream of best-tip changes and derives a monotonic
// epoch counter from it.  The epoch advances exactly once per observed tip
// change, so any state stamped with an older epoch is known to have been
// produced against a tip that is no longer current.
//
// TipMonitor is not safe for concurrent access.  It is owned by the mempool
// service, which serializes all calls to it.
type TipMonitor struct {
	source TipEventSource
	tip    TipChange
	epoch  uint64
}

// NewTipMonitor returns a tip monitor tracking the provided event source.
// The monitor starts at epoch zero with the source's current best tip.
func NewTipMonitor(source TipEventSource) *TipMonitor {
	return &TipMonitor{
		source: source,
		tip:    source.BestTip(),
	}
}

// Poll drains all tip changes that have been delivered since the previous
// call, advancing the epoch once per change.  It never blocks.  The observed
// changes are returned in delivery order; the returned slice is nil when the
// tip is unchanged.
func (m *TipMonitor) Poll() []TipChange {
	var changes []TipChange
	for {
		select {
		case change := <-m.source.TipChanges():
			m.epoch++
			m.tip = change
			changes = append(changes, change)

			log.Debugf("Chain tip changed to %v (height %d), now at "+
				"epoch %d", change.Hash, change.Height, m.epoch)

		default:
			return changes
		}
	}
}

// Epoch returns the number of tip changes observed so far.
func (m *TipMonitor) Epoch() uint64 {
	return m.epoch
}

// BestTip returns the most recently observed best tip.
func (m *TipMonitor) BestTip() TipChange {
	return m.tip
}

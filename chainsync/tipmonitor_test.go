// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsync

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// testTipSource is a TipEventSource backed by a buffered channel that tests
// push changes into directly.
type testTipSource struct {
	tip TipChange
	ch  chan TipChange
}

func newTestTipSource() *testTipSource {
	return &testTipSource{
		ch: make(chan TipChange, 16),
	}
}

func (s *testTipSource) BestTip() TipChange {
	return s.tip
}

func (s *testTipSource) TipChanges() <-chan TipChange {
	return s.ch
}

// push delivers a tip change at the given height with a hash derived from it.
func (s *testTipSource) push(height int32) TipChange {
	change := TipChange{
		Hash:   chainhash.HashH([]byte{byte(height), byte(height >> 8)}),
		Height: height,
	}
	s.tip = change
	s.ch <- change
	return change
}

// TestTipMonitorEpochAdvances verifies the epoch advances exactly once per
// observed tip change and that Poll reports the changes in delivery order.
func TestTipMonitorEpochAdvances(t *testing.T) {
	t.Parallel()

	source := newTestTipSource()
	monitor := NewTipMonitor(source)
	require.EqualValues(t, 0, monitor.Epoch())

	// Polling with no pending changes is a no-op.
	require.Nil(t, monitor.Poll())
	require.EqualValues(t, 0, monitor.Epoch())

	first := source.push(1)
	second := source.push(2)

	changes := monitor.Poll()
	require.Equal(t, []TipChange{first, second}, changes)
	require.EqualValues(t, 2, monitor.Epoch())
	require.Equal(t, second, monitor.BestTip())

	// A subsequent poll observes nothing new.
	require.Nil(t, monitor.Poll())
	require.EqualValues(t, 2, monitor.Epoch())
}

// TestTipMonitorInitialTip verifies the monitor starts from the source's
// current best tip.
func TestTipMonitorInitialTip(t *testing.T) {
	t.Parallel()

	source := newTestTipSource()
	source.tip = TipChange{Height: 42}

	monitor := NewTipMonitor(source)
	require.Equal(t, source.tip, monitor.BestTip())
	require.EqualValues(t, 0, monitor.Epoch())
}

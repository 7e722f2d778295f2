// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsync

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSyncStatusCloseToTip exercises the near-tip decision over a variety of
// recorded batch-length histories.
func TestSyncStatusCloseToTip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lengths    []int
		closeToTip bool
	}{
		{
			name:       "empty window",
			lengths:    nil,
			closeToTip: false,
		},
		{
			name:       "partially filled window",
			lengths:    []int{1},
			closeToTip: false,
		},
		{
			name:       "all batches small",
			lengths:    []int{1, 2},
			closeToTip: true,
		},
		{
			name:       "one large batch",
			lengths:    []int{1, DefaultNearTipThreshold},
			closeToTip: false,
		},
		{
			name:       "large batch pushed out of the window",
			lengths:    []int{500, 3, 1},
			closeToTip: true,
		},
		{
			name:       "falls behind again",
			lengths:    []int{1, 1, 500},
			closeToTip: false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			status, recent := NewSyncStatus()
			for _, length := range test.lengths {
				recent.Push(length)
			}
			require.Equal(t, test.closeToTip, status.CloseToTip())
		})
	}
}

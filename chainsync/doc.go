// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chainsync tracks the state of the best chain and of initial block
download as seen by the rest of the process.

It provides two small pieces of infrastructure that the mempool service
consumes:

  - TipMonitor wraps an externally supplied stream of best-tip changes and
    exposes a monotonically increasing epoch counter.  The epoch advances
    exactly once per observed tip change and is used to invalidate work that
    was started against a tip that is no longer current.

  - RecentSyncLengths and SyncStatus implement the sync gate.  The syncer
    records the size of each completed batch of blocks; when every recent
    batch has been small, the node is considered close to the network tip and
    it is useful to start tracking unconfirmed transactions.
*/
package chainsync

// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mempool provides a sync-gated pool of unconfirmed transactions.

The pool is a two-state service.  While the node is still syncing the chain
the pool is disabled and holds nothing; once the sync gate reports that the
node is close to the network tip the pool is enabled with fresh, empty state.
Disabling at any time drops every verified transaction and cancels all
in-flight work, so the pool is rebuilt from scratch on each enable.

While enabled, candidates submitted through a queue request are admitted into
a concurrent download-and-verify pipeline: candidates submitted by hash are
first fetched from the network collaborator, then every candidate is handed
to the verifier collaborator.  Accepted transactions land in storage, bounded
by an aggregate cost limit with oldest-first eviction.  Rejected transactions
are remembered in one of two registries: rejections that only hold under the
current chain tip are wiped wholesale whenever the tip changes, while
permanent rejections survive tip changes in a capacity-bounded cache.

Every tip change advances an epoch counter.  Pipeline tasks are stamped with
the epoch current when they were admitted, and an outcome whose epoch no
longer matches is discarded outright: it was computed against a tip that no
longer exists and carries no information.  Cancellation is cooperative, so a
task cancelled by a tip change may need one further service invocation before
it disappears from the in-flight count.

The service itself performs no locking beyond a single mutex: all state
mutation happens while servicing a call, and the concurrency lives entirely
inside the per-candidate pipeline goroutines.
*/
package mempool

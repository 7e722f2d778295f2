// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/txgate-labs/mempoold/chainsync"
)

// Config is a descriptor containing the mempool configuration.
type Config struct {
	// MaxTotalCost is the limit on the aggregate cost of all verified
	// transactions in the pool.  Zero selects DefaultMaxTotalCost.
	MaxTotalCost int64

	// RejectionCacheLimit is the capacity of the permanent rejection
	// registry.  Zero selects DefaultRejectionCacheLimit.
	RejectionCacheLimit uint
}

// Request is a request handled by the mempool service.  The concrete types
// are TransactionIdsRequest and QueueRequest.
type Request interface {
	mempoolRequest()
}

// TransactionIdsRequest asks for the hashes of all currently verified
// transactions.
type TransactionIdsRequest struct{}

func (TransactionIdsRequest) mempoolRequest() {}

// QueueRequest submits candidates for admission into the pool.
type QueueRequest struct {
	// Candidates are the transactions to admit, by hash or with payload.
	Candidates []Candidate
}

func (QueueRequest) mempoolRequest() {}

// Response is the reply to a Request.  The concrete types are
// TransactionIdsResponse and QueuedResponse.
type Response interface {
	mempoolResponse()
}

// TransactionIdsResponse carries the hashes of all currently verified
// transactions.  The set is empty while the pool is disabled.
type TransactionIdsResponse struct {
	// Hashes are the verified transaction hashes, in insertion order.
	Hashes []chainhash.Hash
}

func (TransactionIdsResponse) mempoolResponse() {}

// QueuedResponse carries one result per queued candidate, in the same order
// as the request.  A nil result means the candidate was accepted for
// processing (or is already verified or pending); it is not a statement that
// the transaction has been verified.  The eventual outcome is observable
// only through later requests.
type QueuedResponse struct {
	// Results holds one entry per candidate, position for position.
	Results []error
}

func (QueuedResponse) mempoolResponse() {}

// activePool holds the state that only exists while the pool is enabled.
// Representing the enabled state as a separate struct makes "no storage or
// pipeline exists while disabled" structural rather than a convention.
type activePool struct {
	storage   *Storage
	downloads *downloadSet
}

// Mempool is the sync-gated service fronting the verified-transaction
// storage and the download-and-verify pipeline.  It starts disabled.
//
// All methods are safe for concurrent access.  A single mutex serializes
// every operation; this is the only serialization boundary in the pool, and
// all mutation of storage and the pipeline's task arena happens under it.
type Mempool struct {
	cfg      Config
	fetcher  TxFetcher
	verifier TxVerifier
	tips     *chainsync.TipMonitor

	// syncStatus, when non-nil, drives automatic enabling and disabling
	// from sync progress on every request.
	syncStatus *chainsync.SyncStatus

	mtx    sync.Mutex
	active *activePool
}

// New returns a disabled mempool service.  syncStatus may be nil, in which
// case the pool is enabled and disabled only through explicit Enable and
// Disable calls.
func New(cfg *Config, fetcher TxFetcher, verifier TxVerifier,
	tips *chainsync.TipMonitor, syncStatus *chainsync.SyncStatus) *Mempool {

	return &Mempool{
		cfg:        *cfg,
		fetcher:    fetcher,
		verifier:   verifier,
		tips:       tips,
		syncStatus: syncStatus,
	}
}

// IsEnabled returns whether the pool is currently enabled.  It is a pure
// state read with no side effects.
func (mp *Mempool) IsEnabled() bool {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	return mp.active != nil
}

// Enable activates the pool with fresh, empty state bound to the epoch
// current at enable time.  Enabling an already enabled pool is a no-op.
func (mp *Mempool) Enable() {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	mp.enableLocked()
}

func (mp *Mempool) enableLocked() {
	if mp.active != nil {
		return
	}

	storage := NewStorage(mp.cfg.MaxTotalCost, mp.cfg.RejectionCacheLimit)
	mp.active = &activePool{
		storage: storage,
		downloads: newDownloadSet(mp.fetcher, mp.verifier, mp.tips,
			storage),
	}

	log.Infof("Mempool enabled at epoch %d", mp.tips.Epoch())
}

// Disable deactivates the pool, cancelling all in-flight work and discarding
// all storage unconditionally.  Disabling an already disabled pool is a
// no-op.
func (mp *Mempool) Disable() {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	mp.disableLocked()
}

func (mp *Mempool) disableLocked() {
	if mp.active == nil {
		return
	}

	mp.active.downloads.teardown()
	mp.active = nil

	log.Info("Mempool disabled, all state discarded")
}

// Handle services a single request.  Every call first drives progress,
// draining completed pipeline work into storage and reacting to tip changes,
// before computing the reply, so even a read-only request can mutate
// internal state.
func (mp *Mempool) Handle(req Request) Response {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	mp.driveLocked()

	switch r := req.(type) {
	case TransactionIdsRequest, *TransactionIdsRequest:
		return mp.transactionIdsLocked()

	case *QueueRequest:
		return mp.queueLocked(r.Candidates)

	case QueueRequest:
		return mp.queueLocked(r.Candidates)

	default:
		// Unknown request types still drive progress; there is nothing
		// further to answer.
		return nil
	}
}

// Drive makes progress without answering anything: the liveness probe used
// by callers that only want tip changes noticed and completed verifications
// flushed.
func (mp *Mempool) Drive() {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	mp.driveLocked()
}

// driveLocked advances all background bookkeeping: the sync gate, the tip
// monitor, and the pipeline.  Cancellation triggered by a tip change here is
// cooperative; the affected tasks' entries are removed when their stale
// outcomes are drained, typically on the next call.
func (mp *Mempool) driveLocked() {
	if mp.syncStatus != nil {
		if mp.syncStatus.CloseToTip() {
			mp.enableLocked()
		} else {
			mp.disableLocked()
		}
	}

	if mp.active == nil {
		// Keep the epoch moving while disabled so the pool re-enables
		// against the current tip.
		mp.tips.Poll()
		return
	}

	changes := mp.tips.Poll()
	if len(changes) > 0 {
		mp.active.downloads.cancelAll()
		mp.active.storage.ClearTipRejections()

		for _, change := range changes {
			for _, mined := range change.MinedTxns {
				mp.active.storage.Remove(mined)
			}
		}
	}

	mp.active.downloads.drain()
}

// transactionIdsLocked answers a TransactionIdsRequest.
func (mp *Mempool) transactionIdsLocked() *TransactionIdsResponse {
	if mp.active == nil {
		return &TransactionIdsResponse{}
	}
	return &TransactionIdsResponse{
		Hashes: mp.active.storage.TransactionHashes(),
	}
}

// queueLocked answers a QueueRequest with one result per candidate, computed
// independently: no failure in one entry affects another.
func (mp *Mempool) queueLocked(candidates []Candidate) *QueuedResponse {
	results := make([]error, len(candidates))

	if mp.active == nil {
		for i := range results {
			results[i] = ErrDisabled
		}
		return &QueuedResponse{Results: results}
	}

	for i, candidate := range candidates {
		results[i] = mp.admitLocked(candidate)
	}
	return &QueuedResponse{Results: results}
}

// admitLocked resolves a single candidate: a fast-path answer from storage
// where one exists, otherwise admission into the pipeline.  A nil return
// means accepted for processing, not verified.
func (mp *Mempool) admitLocked(c Candidate) error {
	hash := c.Hash()
	storage := mp.active.storage

	// Already verified: idempotent success, no duplicate work.
	if storage.Contains(hash) {
		return nil
	}

	if cause := storage.TipRejection(hash); cause != nil {
		return TipRejectionError{Cause: cause}
	}

	if cause := storage.PermanentRejection(hash); cause != nil {
		return PermanentRejectionError{Cause: cause}
	}

	// Already pending: success without creating a duplicate task.
	if mp.active.downloads.Contains(hash) {
		return nil
	}

	mp.active.downloads.Queue(c)
	return nil
}

// InFlight returns the number of candidates currently in the pipeline.  The
// count is zero while the pool is disabled.  After a tip change the count
// settles only once the service has been driven enough for the cancelled
// tasks' outcomes to be drained; callers needing the post-cancellation value
// must drive the service at least twice.
func (mp *Mempool) InFlight() int {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if mp.active == nil {
		return 0
	}
	return mp.active.downloads.InFlight()
}

// Storage exposes the pool's storage for direct inspection and seeding.  It
// returns nil while the pool is disabled.  The caller must not retain the
// returned storage across a disable, and must not use it concurrently with
// the service.
func (mp *Mempool) Storage() *Storage {
	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	if mp.active == nil {
		return nil
	}
	return mp.active.storage
}

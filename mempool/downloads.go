// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/txgate-labs/mempoold/chainsync"
)

// resultBufferSize is the capacity of the completed-task channel.  Task
// goroutines that finish while the buffer is full block until the service
// next drains, or exit when the pipeline is torn down.
const resultBufferSize = 256

// downloadTask tracks one in-flight candidate.  A task exists from the
// moment its candidate is admitted until its outcome is drained, whether
// that outcome is applied or discarded.
type downloadTask struct {
	hash chainhash.Hash

	// epoch is the tip epoch current when the task was admitted.  An
	// outcome produced under a different epoch is discarded.
	epoch uint64

	// cancel preempts the task's collaborator calls.
	cancel context.CancelFunc
}

// taskResult is the terminal outcome of one task, delivered from the task
// goroutine back to the service.
type taskResult struct {
	hash      chainhash.Hash
	tx        *btcutil.Tx
	fetchErr  error
	verifyErr error
}

// downloadSet is the concurrent download-and-verify pipeline: an arena of at
// most one task per transaction hash.  Each task fans out into its own
// goroutine, calls the network collaborator if the candidate needs a
// payload, then the verifier, and delivers its outcome on a channel.  The
// service drains completed outcomes with drain, which never blocks.
//
// Apart from the task goroutines it spawns, downloadSet is not safe for
// concurrent access; the mempool service serializes all calls to it.
type downloadSet struct {
	fetcher  TxFetcher
	verifier TxVerifier
	tips     *chainsync.TipMonitor
	storage  *Storage

	pending   map[chainhash.Hash]*downloadTask
	completed chan *taskResult

	// ctx is cancelled on teardown, releasing every task goroutine.
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// newDownloadSet returns an empty pipeline writing outcomes into the given
// storage.
func newDownloadSet(fetcher TxFetcher, verifier TxVerifier,
	tips *chainsync.TipMonitor, storage *Storage) *downloadSet {

	ctx, cancel := context.WithCancel(context.Background())
	return &downloadSet{
		fetcher:   fetcher,
		verifier:  verifier,
		tips:      tips,
		storage:   storage,
		pending:   make(map[chainhash.Hash]*downloadTask),
		completed: make(chan *taskResult, resultBufferSize),
		ctx:       ctx,
		ctxCancel: cancel,
	}
}

// InFlight returns the number of tasks that have not yet been resolved.
// Note that a task cancelled by a tip change still counts until its
// discarded outcome is drained on a later service invocation.
func (ds *downloadSet) InFlight() int {
	return len(ds.pending)
}

// Contains returns whether a task already exists for the given hash.
func (ds *downloadSet) Contains(hash chainhash.Hash) bool {
	_, exists := ds.pending[hash]
	return exists
}

// Queue admits a candidate into the pipeline, stamped with the current tip
// epoch.  The caller must have established that no task exists for the
// candidate's hash.
func (ds *downloadSet) Queue(c Candidate) {
	taskCtx, cancel := context.WithCancel(ds.ctx)
	task := &downloadTask{
		hash:   c.Hash(),
		epoch:  ds.tips.Epoch(),
		cancel: cancel,
	}
	ds.pending[task.hash] = task

	log.Tracef("Queued transaction %v at epoch %d (%d in flight)",
		task.hash, task.epoch, len(ds.pending))

	go ds.run(taskCtx, c)
}

// run executes one task's download and verify stages and delivers the
// outcome.  It runs in its own goroutine.
func (ds *downloadSet) run(ctx context.Context, c Candidate) {
	hash := c.Hash()
	result := &taskResult{hash: hash}

	tx := c.Tx()
	if tx == nil {
		fetched, err := ds.fetcher.FetchTransaction(ctx, &hash)
		if err != nil {
			result.fetchErr = err
			ds.deliver(result)
			return
		}
		tx = fetched
	}

	result.tx = tx
	result.verifyErr = ds.verifier.VerifyTransaction(ctx, tx)
	ds.deliver(result)
}

// deliver hands a completed outcome back to the service, giving up when the
// pipeline is torn down before the outcome can be drained.
func (ds *downloadSet) deliver(result *taskResult) {
	select {
	case ds.completed <- result:
	case <-ds.ctx.Done():
	}
}

// drain applies every outcome delivered since the previous call.  It never
// blocks: outcomes from tasks still inside a collaborator call are picked up
// by a later invocation.
func (ds *downloadSet) drain() {
	for {
		select {
		case result := <-ds.completed:
			ds.apply(result)
		default:
			return
		}
	}
}

// apply resolves one completed task against storage.  The task's stamped
// epoch is compared with the current epoch before anything else: an outcome
// computed under a superseded tip is discarded without recording either
// acceptance or rejection.
func (ds *downloadSet) apply(result *taskResult) {
	task, exists := ds.pending[result.hash]
	if !exists {
		return
	}
	delete(ds.pending, result.hash)
	task.cancel()

	if task.epoch != ds.tips.Epoch() {
		log.Debugf("Discarding outcome for transaction %v: epoch %d "+
			"superseded by %d", result.hash, task.epoch,
			ds.tips.Epoch())
		return
	}

	// A failed download is not a rejection.  It reflects network or peer
	// conditions, not the transaction's validity, so the hash becomes
	// immediately re-queueable.
	if result.fetchErr != nil {
		log.Debugf("Download of transaction %v failed: %v",
			result.hash, result.fetchErr)
		return
	}

	if result.verifyErr != nil {
		log.Debugf("Transaction %v failed verification: %v",
			result.hash, result.verifyErr)
		ds.storage.RejectTipScoped(result.hash, result.verifyErr)
		return
	}

	// Insert records its own rejection when the transaction cannot fit.
	if err := ds.storage.Insert(result.tx); err != nil {
		log.Debugf("Verified transaction %v not stored: %v",
			result.hash, err)
	}
}

// cancelAll preempts every in-flight task.  The tasks' entries remain in the
// arena until their now-stale outcomes are drained, so the in-flight count
// settles over the following service invocations rather than immediately.
func (ds *downloadSet) cancelAll() {
	if len(ds.pending) == 0 {
		return
	}

	log.Debugf("Cancelling %d in-flight transaction downloads",
		len(ds.pending))

	for _, task := range ds.pending {
		task.cancel()
	}
}

// teardown releases every task goroutine.  Used when the pool is disabled;
// the whole pipeline is discarded afterwards.
func (ds *downloadSet) teardown() {
	ds.ctxCancel()
}

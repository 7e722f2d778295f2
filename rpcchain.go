// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"

	"github.com/txgate-labs/mempoold/chainsync"
)

// tipChangeBufferSize bounds the number of undelivered tip changes.  The
// mempool service drains the channel on every invocation, so the buffer only
// fills if the service stops being driven entirely.
const tipChangeBufferSize = 64

// rpcChain adapts an RPC connection to a btcd-compatible node into the
// collaborator contracts the mempool service consumes: the transaction
// fetcher, the transaction verifier, and the tip event source.  Tip changes
// are detected by polling the node's best block hash.
type rpcChain struct {
	client      *rpcclient.Client
	recentSyncs *chainsync.RecentSyncLengths

	tipCh chan chainsync.TipChange

	mtx  sync.Mutex
	best chainsync.TipChange

	wg   sync.WaitGroup
	quit chan struct{}
}

// newRPCChain returns an rpcChain primed with the node's current best tip.
func newRPCChain(client *rpcclient.Client,
	recentSyncs *chainsync.RecentSyncLengths) (*rpcChain, error) {

	hash, err := client.GetBestBlockHash()
	if err != nil {
		return nil, err
	}
	height, err := client.GetBlockCount()
	if err != nil {
		return nil, err
	}

	return &rpcChain{
		client:      client,
		recentSyncs: recentSyncs,
		tipCh:       make(chan chainsync.TipChange, tipChangeBufferSize),
		best: chainsync.TipChange{
			Hash:   *hash,
			Height: int32(height),
		},
		quit: make(chan struct{}),
	}, nil
}

// BestTip returns the most recently polled best tip.
//
// This is part of the chainsync.TipEventSource interface.
func (c *rpcChain) BestTip() chainsync.TipChange {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.best
}

// TipChanges returns the channel on which polled tip changes are delivered.
//
// This is part of the chainsync.TipEventSource interface.
func (c *rpcChain) TipChanges() <-chan chainsync.TipChange {
	return c.tipCh
}

// FetchTransaction requests a transaction from the node.
//
// This is part of the mempool.TxFetcher interface.
func (c *rpcChain) FetchTransaction(ctx context.Context,
	hash *chainhash.Hash) (*btcutil.Tx, error) {

	// The RPC client has no per-call context support; honoring the
	// pipeline's cancellation here at least avoids issuing calls whose
	// results are already known to be unwanted.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return c.client.GetRawTransaction(hash)
}

// VerifyTransaction submits a transaction to the node's acceptance test.
//
// This is part of the mempool.TxVerifier interface.
func (c *rpcChain) VerifyTransaction(ctx context.Context,
	tx *btcutil.Tx) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	results, err := c.client.TestMempoolAccept([]*wire.MsgTx{tx.MsgTx()}, 0)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errors.New("empty testmempoolaccept response")
	}
	if !results[0].Allowed {
		return errors.New(results[0].RejectReason)
	}
	return nil
}

// Start launches the tip polling goroutine.
func (c *rpcChain) Start(interval time.Duration) {
	c.wg.Add(1)
	go c.pollLoop(interval)
}

// Stop shuts down the tip polling goroutine and blocks until it exits.
func (c *rpcChain) Stop() {
	close(c.quit)
	c.wg.Wait()
}

// pollLoop polls the node's best block hash until Stop is called.
func (c *rpcChain) pollLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.pollOnce()
		case <-c.quit:
			return
		}
	}
}

// pollOnce checks for a new best tip and, if one is found, delivers a tip
// change carrying the new block's transaction hashes and records the height
// advance as a sync batch.
func (c *rpcChain) pollOnce() {
	hash, err := c.client.GetBestBlockHash()
	if err != nil {
		mainLog.Warnf("Failed to poll best block hash: %v", err)
		return
	}

	c.mtx.Lock()
	prev := c.best
	c.mtx.Unlock()

	if *hash == prev.Hash {
		return
	}

	height, err := c.client.GetBlockCount()
	if err != nil {
		mainLog.Warnf("Failed to poll block count: %v", err)
		return
	}

	block, err := c.client.GetBlock(hash)
	if err != nil {
		mainLog.Warnf("Failed to fetch new tip block %v: %v", hash, err)
		return
	}
	mined := make([]chainhash.Hash, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		mined = append(mined, tx.TxHash())
	}

	change := chainsync.TipChange{
		Hash:      *hash,
		Height:    int32(height),
		MinedTxns: mined,
	}

	c.mtx.Lock()
	c.best = change
	c.mtx.Unlock()

	// A reorg can move the height backwards; it still counts as a
	// minimal batch so the sync gate sees activity.
	advance := int(change.Height - prev.Height)
	if advance < 1 {
		advance = 1
	}
	c.recentSyncs.Push(advance)

	select {
	case c.tipCh <- change:
	default:
		mainLog.Warnf("Tip change buffer full, dropping change to %v",
			hash)
	}
}

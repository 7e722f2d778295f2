// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"

	"github.com/txgate-labs/mempoold/chainsync"
	"github.com/txgate-labs/mempoold/mempool"
)

// mempoolSyncEvery controls how many poll ticks pass between scans of the
// node's raw mempool for new candidates to admit.
const mempoolSyncEvery = 5

// mempooldMain is the real main function for mempoold.  It is separated from
// main so defers run before os.Exit.
func mempooldMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(filepath.Join(cfg.LogDir,
		defaultLogFilename)); err != nil {

		return err
	}
	defer logRotator.Close()
	setLogLevels(cfg.DebugLevel)

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.RPCConnect,
		User:         cfg.RPCUser,
		Pass:         cfg.RPCPass,
		HTTPPostMode: true,
		DisableTLS:   cfg.NoTLS,
	}, nil)
	if err != nil {
		return err
	}
	defer client.Shutdown()

	syncStatus, recentSyncs := chainsync.NewSyncStatus()
	chain, err := newRPCChain(client, recentSyncs)
	if err != nil {
		return err
	}

	tips := chainsync.NewTipMonitor(chain)
	pool := mempool.New(&mempool.Config{
		MaxTotalCost:        cfg.CostLimit,
		RejectionCacheLimit: cfg.RejectionCacheSize,
	}, chain, chain, tips, syncStatus)

	chain.Start(cfg.PollInterval)
	defer chain.Stop()

	mainLog.Infof("mempoold started, tracking %s from tip %v",
		cfg.RPCConnect, tips.BestTip().Hash)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-ticker.C:
			pool.Drive()

			tick++
			if tick%mempoolSyncEvery == 0 {
				syncNodeMempool(client, pool)
			}

		case <-interrupt:
			mainLog.Info("Received shutdown signal")
			return nil
		}
	}
}

// syncNodeMempool queues every transaction currently in the node's raw
// mempool that the pool does not already know about, mirroring the node's
// view through the download-and-verify pipeline.
func syncNodeMempool(client *rpcclient.Client, pool *mempool.Mempool) {
	if !pool.IsEnabled() {
		return
	}

	hashes, err := client.GetRawMempool()
	if err != nil {
		mainLog.Warnf("Failed to fetch raw mempool: %v", err)
		return
	}
	if len(hashes) == 0 {
		return
	}

	candidates := make([]mempool.Candidate, 0, len(hashes))
	for _, hash := range hashes {
		candidates = append(candidates,
			mempool.NewCandidateFromHash(*hash))
	}

	resp := pool.Handle(mempool.QueueRequest{Candidates: candidates})
	queued, ok := resp.(*mempool.QueuedResponse)
	if !ok {
		return
	}

	var rejected int
	for _, result := range queued.Results {
		if result != nil {
			rejected++
		}
	}
	if rejected > 0 {
		mainLog.Debugf("Queued %d mempool candidates, %d rejected",
			len(candidates)-rejected, rejected)
	}
}

func main() {
	if err := mempooldMain(); err != nil {
		os.Exit(1)
	}
}

// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// testChainTx returns a minimal transaction for exercising the RPC-backed
// collaborators.
func testChainTx() *btcutil.Tx {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 1},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	msgTx.AddTxOut(&wire.TxOut{
		Value:    1,
		PkScript: []byte{0x51},
	})
	return btcutil.NewTx(msgTx)
}

// TestRPCChainHonorsCancellation verifies the fetcher and verifier refuse
// already-cancelled work without issuing an RPC call.
func TestRPCChainHonorsCancellation(t *testing.T) {
	t.Parallel()

	// A nil client proves no RPC call is attempted: any attempt would
	// dereference it and panic.
	chain := &rpcChain{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var hash chainhash.Hash
	_, err := chain.FetchTransaction(ctx, &hash)
	require.ErrorIs(t, err, context.Canceled)

	err = chain.VerifyTransaction(ctx, testChainTx())
	require.ErrorIs(t, err, context.Canceled)
}

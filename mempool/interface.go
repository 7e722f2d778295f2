// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// TxFetcher is the network collaborator the pipeline uses to obtain the
// payload of a candidate that was queued by hash alone.  Implementations are
// expected to apply their own timeouts; the pipeline imposes none of its own,
// it only cancels the context when the work is no longer wanted.
type TxFetcher interface {
	// FetchTransaction requests the transaction with the given hash from
	// the network.  Any error, including not-found and timeouts, simply
	// fails the download: it says nothing about the transaction's
	// validity and records no rejection.
	FetchTransaction(ctx context.Context,
		hash *chainhash.Hash) (*btcutil.Tx, error)
}

// TxVerifier is the consensus collaborator the pipeline submits downloaded
// payloads to.  A nil return means the transaction is valid under the current
// chain tip; a non-nil return is the rejection cause.
type TxVerifier interface {
	// VerifyTransaction verifies the transaction under the current chain
	// tip.
	VerifyTransaction(ctx context.Context, tx *btcutil.Tx) error
}

// TxFetcherFunc adapts a plain function to the TxFetcher interface.
type TxFetcherFunc func(ctx context.Context,
	hash *chainhash.Hash) (*btcutil.Tx, error)

// FetchTransaction calls f.
func (f TxFetcherFunc) FetchTransaction(ctx context.Context,
	hash *chainhash.Hash) (*btcutil.Tx, error) {

	return f(ctx, hash)
}

// TxVerifierFunc adapts a plain function to the TxVerifier interface.
type TxVerifierFunc func(ctx context.Context, tx *btcutil.Tx) error

// VerifyTransaction calls f.
func (f TxVerifierFunc) VerifyTransaction(ctx context.Context,
	tx *btcutil.Tx) error {

	return f(ctx, tx)
}

// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Candidate is a transaction proposed for admission into the pool.  It
// either carries the full payload, in which case the download stage is
// skipped, or just the hash, in which case the payload is fetched from the
// network first.  Candidates are immutable once created.
type Candidate struct {
	hash chainhash.Hash
	tx   *btcutil.Tx
}

// NewCandidateFromHash returns a candidate that must be downloaded before it
// can be verified.
func NewCandidateFromHash(hash chainhash.Hash) Candidate {
	return Candidate{hash: hash}
}

// NewCandidateFromTx returns a candidate carrying its full payload.
func NewCandidateFromTx(tx *btcutil.Tx) Candidate {
	return Candidate{hash: *tx.Hash(), tx: tx}
}

// Hash returns the candidate's transaction hash.
func (c Candidate) Hash() chainhash.Hash {
	return c.hash
}

// Tx returns the candidate's payload, or nil when the candidate was queued by
// hash and still needs to be downloaded.
func (c Candidate) Tx() *btcutil.Tx {
	return c.tx
}

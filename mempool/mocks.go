// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/mock"
)

// MockTxFetcher is a mock implementation of the TxFetcher interface.
type MockTxFetcher struct {
	mock.Mock
}

// Ensure MockTxFetcher implements the TxFetcher interface.
var _ TxFetcher = (*MockTxFetcher)(nil)

// FetchTransaction requests the transaction with the given hash from the
// network.
func (m *MockTxFetcher) FetchTransaction(ctx context.Context,
	hash *chainhash.Hash) (*btcutil.Tx, error) {

	args := m.Called(ctx, hash)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*btcutil.Tx), args.Error(1)
}

// MockTxVerifier is a mock implementation of the TxVerifier interface.
type MockTxVerifier struct {
	mock.Mock
}

// Ensure MockTxVerifier implements the TxVerifier interface.
var _ TxVerifier = (*MockTxVerifier)(nil)

// VerifyTransaction verifies the transaction under the current chain tip.
func (m *MockTxVerifier) VerifyTransaction(ctx context.Context,
	tx *btcutil.Tx) error {

	args := m.Called(ctx, tx)
	return args.Error(0)
}

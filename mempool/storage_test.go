// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// testTx returns a small transaction whose hash is unique per seed.
func testTx(seed uint32) *btcutil.Tx {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: seed},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	msgTx.AddTxOut(&wire.TxOut{
		Value:    int64(seed) + 1,
		PkScript: []byte{0x51}, // OP_TRUE
	})
	return btcutil.NewTx(msgTx)
}

// largeTestTx returns a transaction whose serialized size exceeds the cost
// floor, so its cost equals its size.
func largeTestTx(seed uint32, scriptSize int) *btcutil.Tx {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	msgTx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: seed},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	msgTx.AddTxOut(&wire.TxOut{
		Value:    int64(seed) + 1,
		PkScript: make([]byte, scriptSize),
	})
	return btcutil.NewTx(msgTx)
}

// TestStorageInsertAndQuery verifies basic insertion, lookups and ordering.
func TestStorageInsertAndQuery(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	tx1, tx2 := testTx(1), testTx(2)
	require.NoError(t, storage.Insert(tx1))
	require.NoError(t, storage.Insert(tx2))

	require.Equal(t, 2, storage.Count())
	require.True(t, storage.Contains(*tx1.Hash()))
	require.True(t, storage.Contains(*tx2.Hash()))

	got, ok := storage.Transaction(*tx1.Hash())
	require.True(t, ok)
	require.Equal(t, tx1, got)

	require.Equal(t, []chainhash.Hash{*tx1.Hash(), *tx2.Hash()},
		storage.TransactionHashes())
}

// TestStorageDuplicateInsert verifies inserting an existing transaction is a
// no-op.
func TestStorageDuplicateInsert(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	tx := testTx(1)
	require.NoError(t, storage.Insert(tx))
	cost := storage.TotalCost()

	require.NoError(t, storage.Insert(tx))
	require.Equal(t, 1, storage.Count())
	require.Equal(t, cost, storage.TotalCost())
}

// TestStorageCostFloor verifies tiny transactions are costed at the floor
// while large transactions are costed at their serialized size.
func TestStorageCostFloor(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	require.NoError(t, storage.Insert(testTx(1)))
	require.EqualValues(t, costThreshold, storage.TotalCost())

	big := largeTestTx(2, 3*costThreshold)
	require.NoError(t, storage.Insert(big))
	require.EqualValues(t,
		costThreshold+int64(big.MsgTx().SerializeSize()),
		storage.TotalCost())
}

// TestStorageEvictsOldestFirst verifies that exceeding the cost limit evicts
// entries in ascending insertion order, recording each eviction as a
// permanent rejection.
func TestStorageEvictsOldestFirst(t *testing.T) {
	t.Parallel()

	// Room for two floor-cost entries, not three.
	storage := NewStorage(2*costThreshold+costThreshold/2, 0)

	tx1, tx2, tx3 := testTx(1), testTx(2), testTx(3)
	require.NoError(t, storage.Insert(tx1))
	require.NoError(t, storage.Insert(tx2))
	require.NoError(t, storage.Insert(tx3))

	require.Equal(t, []chainhash.Hash{*tx2.Hash(), *tx3.Hash()},
		storage.TransactionHashes())
	require.False(t, storage.Contains(*tx1.Hash()))

	require.ErrorIs(t, storage.PermanentRejection(*tx1.Hash()), ErrEvicted)
	require.NoError(t, storage.PermanentRejection(*tx2.Hash()))
	require.NoError(t, storage.PermanentRejection(*tx3.Hash()))
}

// TestStorageOversizeInsert verifies the degenerate case of a transaction
// that cannot fit even in an empty pool.
func TestStorageOversizeInsert(t *testing.T) {
	t.Parallel()

	storage := NewStorage(costThreshold/2, 0)

	tx := testTx(1)
	err := storage.Insert(tx)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrExceedsCostLimit)

	var permErr PermanentRejectionError
	require.ErrorAs(t, err, &permErr)

	require.Equal(t, 0, storage.Count())
	require.ErrorIs(t, storage.PermanentRejection(*tx.Hash()),
		ErrExceedsCostLimit)
}

// TestStorageTipRejections verifies recording, lookup and the wholesale
// clear of tip-scoped rejections.
func TestStorageTipRejections(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	cause := errors.New("bad balance")
	hash := *testTx(1).Hash()

	require.NoError(t, storage.TipRejection(hash))
	storage.RejectTipScoped(hash, cause)
	require.ErrorIs(t, storage.TipRejection(hash), cause)

	// Permanent registry is untouched.
	require.NoError(t, storage.PermanentRejection(hash))

	storage.ClearTipRejections()
	require.NoError(t, storage.TipRejection(hash))
}

// TestStorageInsertClearsTipRejection verifies that a transaction verified
// after a stale rejection no longer reports the rejection.
func TestStorageInsertClearsTipRejection(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	tx := testTx(1)
	storage.RejectTipScoped(*tx.Hash(), errors.New("stale reject"))

	require.NoError(t, storage.Insert(tx))
	require.NoError(t, storage.TipRejection(*tx.Hash()))
}

// TestStoragePermanentRejectionCapacity verifies the permanent registry is
// capacity bounded, dropping the stalest entries.
func TestStoragePermanentRejectionCapacity(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 2)

	h1 := *testTx(1).Hash()
	h2 := *testTx(2).Hash()
	h3 := *testTx(3).Hash()

	cause := errors.New("invalid")
	storage.RejectPermanent(h1, cause)
	storage.RejectPermanent(h2, cause)
	storage.RejectPermanent(h3, cause)

	require.NoError(t, storage.PermanentRejection(h1))
	require.ErrorIs(t, storage.PermanentRejection(h2), cause)
	require.ErrorIs(t, storage.PermanentRejection(h3), cause)
}

// TestStorageRemove verifies removal drops the entry without recording any
// rejection.
func TestStorageRemove(t *testing.T) {
	t.Parallel()

	storage := NewStorage(0, 0)

	tx := testTx(1)
	require.NoError(t, storage.Insert(tx))

	storage.Remove(*tx.Hash())
	require.False(t, storage.Contains(*tx.Hash()))
	require.EqualValues(t, 0, storage.TotalCost())
	require.NoError(t, storage.TipRejection(*tx.Hash()))
	require.NoError(t, storage.PermanentRejection(*tx.Hash()))

	// Removing an absent transaction is a no-op.
	storage.Remove(*tx.Hash())
	require.Equal(t, 0, storage.Count())
}

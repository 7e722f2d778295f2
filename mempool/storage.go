// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"container/list"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

const (
	// DefaultMaxTotalCost is the default limit on the aggregate cost of
	// all verified transactions in the pool.
	DefaultMaxTotalCost = 80000000

	// DefaultRejectionCacheLimit is the default capacity of the permanent
	// rejection registry.
	DefaultRejectionCacheLimit = 40000

	// costThreshold is the minimum cost charged for a verified
	// transaction regardless of its serialized size.  Charging a floor
	// keeps an attacker from packing the pool with an enormous number of
	// tiny transactions while staying under the aggregate cost limit.
	costThreshold = 10000
)

// VerifiedEntry pairs a verified transaction with its cost.  Entries are
// owned exclusively by Storage.
type VerifiedEntry struct {
	// Tx is the verified transaction.
	Tx *btcutil.Tx

	// Cost is the cost charged against the pool's aggregate limit for
	// this entry.
	Cost int64

	// elem is the entry's node in the insertion-order list used for
	// oldest-first eviction.
	elem *list.Element
}

// txCost returns the cost charged for a transaction: its serialized size,
// floored at costThreshold.
func txCost(tx *btcutil.Tx) int64 {
	cost := int64(tx.MsgTx().SerializeSize())
	if cost < costThreshold {
		cost = costThreshold
	}
	return cost
}

// Storage is the verified-transaction set together with the two rejection
// registries.  It has no knowledge of networking or verification; outcomes
// are recorded into it by the pipeline and queried by the service.
//
// Storage is not safe for concurrent access.  It is owned by the mempool
// service, which serializes all calls to it.
type Storage struct {
	maxTotalCost int64

	// entries holds the verified set keyed by transaction hash, with
	// order tracking insertion order for oldest-first eviction.  The
	// list values are chainhash.Hash.
	entries   map[chainhash.Hash]*VerifiedEntry
	order     *list.List
	totalCost int64

	// tipRejections holds rejections that are only valid while the chain
	// tip that produced them remains current.  The whole map is replaced
	// on every tip change.
	tipRejections map[chainhash.Hash]error

	// permanentRejections holds rejections that survive tip changes,
	// bounded by the configured capacity.
	permanentRejections lru.KVCache
}

// NewStorage returns empty storage enforcing the given aggregate cost limit
// and permanent-rejection capacity.  Zero values select the defaults.
func NewStorage(maxTotalCost int64, rejectionCacheLimit uint) *Storage {
	if maxTotalCost <= 0 {
		maxTotalCost = DefaultMaxTotalCost
	}
	if rejectionCacheLimit == 0 {
		rejectionCacheLimit = DefaultRejectionCacheLimit
	}

	return &Storage{
		maxTotalCost:        maxTotalCost,
		entries:             make(map[chainhash.Hash]*VerifiedEntry),
		order:               list.New(),
		tipRejections:       make(map[chainhash.Hash]error),
		permanentRejections: lru.NewKVCache(rejectionCacheLimit),
	}
}

// Insert adds a verified transaction to the pool.  If the insertion pushes
// the aggregate cost over the limit, existing entries are evicted oldest
// first until the limit is restored, each eviction being recorded as a
// permanent rejection with cause ErrEvicted.
//
// Insert fails only when the transaction alone cannot fit even after
// evicting everything else; that failure is itself recorded as a permanent
// rejection with cause ErrExceedsCostLimit.  Inserting a transaction that is
// already present is a no-op.
func (s *Storage) Insert(tx *btcutil.Tx) error {
	hash := *tx.Hash()
	if _, exists := s.entries[hash]; exists {
		return nil
	}

	cost := txCost(tx)
	if cost > s.maxTotalCost {
		s.RejectPermanent(hash, ErrExceedsCostLimit)
		return PermanentRejectionError{Cause: ErrExceedsCostLimit}
	}

	entry := &VerifiedEntry{Tx: tx, Cost: cost}
	entry.elem = s.order.PushBack(hash)
	s.entries[hash] = entry
	s.totalCost += cost

	// The transaction verified under the current tip, so any stale
	// rejection recorded for it no longer holds.
	delete(s.tipRejections, hash)

	// Restore the cost limit by evicting the oldest entries.  The new
	// entry is at the back of the list and is never reached: the loop
	// terminates once it is the only entry left, since its cost alone is
	// within the limit.
	for s.totalCost > s.maxTotalCost {
		oldest := s.order.Front().Value.(chainhash.Hash)
		s.removeEntry(oldest)
		s.RejectPermanent(oldest, ErrEvicted)

		log.Debugf("Evicted transaction %v to restore the cost "+
			"limit (total cost %d/%d)", oldest, s.totalCost,
			s.maxTotalCost)
	}

	log.Tracef("Stored verified transaction %v (cost %d, pool %d/%d)",
		hash, cost, s.totalCost, s.maxTotalCost)

	return nil
}

// removeEntry drops an entry from the verified set without recording any
// rejection.
func (s *Storage) removeEntry(hash chainhash.Hash) {
	entry, exists := s.entries[hash]
	if !exists {
		return
	}
	s.order.Remove(entry.elem)
	delete(s.entries, hash)
	s.totalCost -= entry.Cost
}

// Remove drops the transaction with the given hash from the verified set
// without recording a rejection.  It is used when a verified transaction is
// later found mined or in conflict with a newly committed block; neither is
// a statement about the transaction's validity.
func (s *Storage) Remove(hash chainhash.Hash) {
	s.removeEntry(hash)
}

// Contains returns whether the verified set holds the given transaction.
func (s *Storage) Contains(hash chainhash.Hash) bool {
	_, exists := s.entries[hash]
	return exists
}

// Transaction returns the verified transaction with the given hash, if
// present.
func (s *Storage) Transaction(hash chainhash.Hash) (*btcutil.Tx, bool) {
	entry, exists := s.entries[hash]
	if !exists {
		return nil, false
	}
	return entry.Tx, true
}

// TransactionHashes returns the hashes of all verified transactions in
// insertion order.
func (s *Storage) TransactionHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, s.order.Len())
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		hashes = append(hashes, elem.Value.(chainhash.Hash))
	}
	return hashes
}

// Count returns the number of verified transactions in the pool.
func (s *Storage) Count() int {
	return len(s.entries)
}

// TotalCost returns the aggregate cost of all verified transactions.
func (s *Storage) TotalCost() int64 {
	return s.totalCost
}

// RejectTipScoped records a rejection that only holds under the current
// chain tip.
func (s *Storage) RejectTipScoped(hash chainhash.Hash, cause error) {
	s.tipRejections[hash] = cause
}

// RejectPermanent records a rejection that survives tip changes.  The
// registry is capacity bounded; recording into a full registry drops the
// stalest entry.
func (s *Storage) RejectPermanent(hash chainhash.Hash, cause error) {
	s.permanentRejections.Add(hash, cause)
}

// TipRejection returns the recorded tip-scoped rejection cause for the given
// transaction, or nil when there is none.
func (s *Storage) TipRejection(hash chainhash.Hash) error {
	cause, exists := s.tipRejections[hash]
	if !exists {
		return nil
	}
	return cause
}

// PermanentRejection returns the recorded permanent rejection cause for the
// given transaction, or nil when there is none.
func (s *Storage) PermanentRejection(hash chainhash.Hash) error {
	cause, exists := s.permanentRejections.Lookup(hash)
	if !exists {
		return nil
	}
	return cause.(error)
}

// ClearTipRejections wipes the tip-scoped rejection registry.  It is invoked
// on every tip change: the premise behind each entry, invalid under the
// previous best tip, no longer holds, so the registry is cleared wholesale
// rather than filtered.
func (s *Storage) ClearTipRejections() {
	if len(s.tipRejections) > 0 {
		log.Debugf("Cleared %d tip-scoped rejections",
			len(s.tipRejections))
	}
	s.tipRejections = make(map[chainhash.Hash]error)
}

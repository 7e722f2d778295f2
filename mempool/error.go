// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned for every queued candidate while the mempool is
// disabled.  It is an expected, recoverable outcome, not a fault: callers
// simply resubmit once the node is close enough to the tip for the pool to
// be enabled.
var ErrDisabled = errors.New("mempool is not enabled")

// ErrEvicted is the cause recorded against a transaction that was removed
// from the pool to bring the aggregate cost back under the configured limit.
var ErrEvicted = errors.New("evicted to stay within the mempool cost limit")

// ErrExceedsCostLimit is the cause recorded against a transaction whose cost
// alone exceeds the configured limit, so it could never fit in the pool even
// if everything else were evicted.
var ErrExceedsCostLimit = errors.New("transaction cost exceeds the mempool " +
	"cost limit")

// TipRejectionError wraps the cause a transaction was rejected under the
// current chain tip.  The rejection is only meaningful while that tip remains
// the best tip; it is forgotten wholesale on the next tip change, after which
// the same transaction may be queued again.
type TipRejectionError struct {
	// Cause is the verifier's rejection reason.
	Cause error
}

// Error satisfies the error interface.
func (e TipRejectionError) Error() string {
	return fmt.Sprintf("rejected under the current chain tip: %v", e.Cause)
}

// Unwrap returns the underlying rejection cause so callers can inspect it
// with errors.Is and errors.As.
func (e TipRejectionError) Unwrap() error {
	return e.Cause
}

// PermanentRejectionError wraps the cause a transaction was rejected
// independent of the chain tip, such as eviction for cost.  The rejection
// survives tip changes and is only dropped when its registry reaches capacity
// or the pool is disabled.
type PermanentRejectionError struct {
	// Cause is the reason for the rejection.
	Cause error
}

// Error satisfies the error interface.
func (e PermanentRejectionError) Error() string {
	return fmt.Sprintf("rejected: %v", e.Cause)
}

// Unwrap returns the underlying rejection cause so callers can inspect it
// with errors.Is and errors.As.
func (e PermanentRejectionError) Unwrap() error {
	return e.Cause
}

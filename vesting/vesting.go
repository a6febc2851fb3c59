// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting implements cliff plus linear unlock schedules for locked
// token balances. Schedules are independent of farming; the token ledger
// consults them on every balance reducing transfer.
package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/fpmath"
)

// ErrVestingViolation is returned when a transfer would leave a vested
// account below its currently locked amount.
var ErrVestingViolation = errors.New("vested account, balance can't go below the locked amount")

// Record describes a single vesting schedule.
// Before the cliff the whole amount is locked; between cliff and end the
// locked amount decreases linearly to zero.
type Record struct {
	// Amount originally locked by the schedule.
	Amount *big.Int
	// Cliff is the unix timestamp (seconds) until which Amount stays fully locked.
	Cliff uint64
	// End is the unix timestamp (seconds) at which nothing is locked anymore.
	End uint64
}

// NewRecord creates a vesting record, validating its invariants.
func NewRecord(amount *big.Int, cliff, end uint64) (*Record, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("vesting amount must be positive")
	}
	if cliff > end {
		return nil, errors.New("cliff can't be later than vesting end")
	}
	return &Record{Amount: new(big.Int).Set(amount), Cliff: cliff, End: end}, nil
}

// LockedAt computes the amount locked by the schedule at the given time.
func (r *Record) LockedAt(now uint64) *big.Int {
	if now < r.Cliff {
		return new(big.Int).Set(r.Amount)
	}
	if now >= r.End {
		return new(big.Int)
	}
	// now < End, so both time deltas fit and locked <= Amount
	locked, err := fpmath.Proportional(r.Amount, r.End-now, r.End-r.Cliff)
	if err != nil {
		// amount and timestamps are validated at creation
		panic(err)
	}
	return locked
}

// Encode implements state.StructedStorage.
func (r *Record) Encode() ([]byte, error) {
	if r.Amount == nil || r.Amount.Sign() == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StructedStorage.
func (r *Record) Decode(data []byte) error {
	if len(data) == 0 {
		*r = Record{Amount: new(big.Int)}
		return nil
	}
	return rlp.DecodeBytes(data, r)
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/state"
)

func recordKey(acc cheddar.Address) []byte {
	return append([]byte("vest"), acc.Bytes()...)
}

// Ledger stores one vesting record per account.
type Ledger struct {
	state *state.State
}

// NewLedger creates a vesting ledger over the given state.
func NewLedger(st *state.State) *Ledger {
	return &Ledger{state: st}
}

// Set attaches a vesting record to the account.
func (l *Ledger) Set(acc cheddar.Address, record *Record) error {
	return l.state.SetStructed(recordKey(acc), record)
}

// Record returns the account's vesting record, or nil when there is none.
func (l *Ledger) Record(acc cheddar.Address) (*Record, error) {
	has, err := l.state.Has(recordKey(acc))
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	var r Record
	if err := l.state.GetStructed(recordKey(acc), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// LockedAmount returns the amount currently locked for the account.
// A schedule fully unlocked is removed.
func (l *Ledger) LockedAmount(acc cheddar.Address, now uint64) (*big.Int, error) {
	r, err := l.Record(acc)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return new(big.Int), nil
	}
	locked := r.LockedAt(now)
	if locked.Sign() == 0 {
		if err := l.state.Delete(recordKey(acc)); err != nil {
			return nil, err
		}
	}
	return locked, nil
}

// CheckTransfer verifies that the account's balance after a transfer does
// not fall below the locked amount.
func (l *Ledger) CheckTransfer(acc cheddar.Address, balanceLeft *big.Int, now uint64) error {
	locked, err := l.LockedAmount(acc, now)
	if err != nil {
		return err
	}
	if balanceLeft.Cmp(locked) < 0 {
		return errors.WithMessagef(ErrVestingViolation, "locked %v", locked)
	}
	return nil
}

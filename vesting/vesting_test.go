// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/kv"
	"github.com/alpha-fi/cheddar-farm/state"
)

func TestNewRecord(t *testing.T) {
	_, err := NewRecord(big.NewInt(0), 100, 200)
	assert.Error(t, err)

	_, err = NewRecord(big.NewInt(10), 300, 200)
	assert.Error(t, err)

	r, err := NewRecord(big.NewInt(10), 100, 200)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(10), r.Amount)
}

func TestLockedAt(t *testing.T) {
	r, err := NewRecord(big.NewInt(1000), 100, 200)
	require.NoError(t, err)

	tests := []struct {
		now    uint64
		locked int64
	}{
		{0, 1000},
		{99, 1000},
		{100, 1000}, // at the cliff the full amount is still locked
		{150, 500},  // linear unlock half way
		{175, 250},
		{199, 10},
		{200, 0},
		{1000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, big.NewInt(tt.locked), r.LockedAt(tt.now), "now=%d", tt.now)
	}
}

func TestLockedMonotonic(t *testing.T) {
	r, err := NewRecord(big.NewInt(999), 50, 1000)
	require.NoError(t, err)

	prev := r.LockedAt(0)
	for now := uint64(1); now <= 1100; now += 7 {
		locked := r.LockedAt(now)
		assert.True(t, locked.Cmp(prev) <= 0, "locked amount increased at %d", now)
		prev = locked
	}
	assert.Equal(t, 0, prev.Sign())
}

func TestLedgerCheckTransfer(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()
	ledger := NewLedger(state.New(db))

	acc := cheddar.BytesToAddress([]byte("alice"))
	r, err := NewRecord(big.NewInt(1000), 100, 200)
	require.NoError(t, err)
	require.NoError(t, ledger.Set(acc, r))

	// before the cliff everything is locked
	err = ledger.CheckTransfer(acc, big.NewInt(999), 50)
	assert.ErrorIs(t, err, ErrVestingViolation)
	assert.NoError(t, ledger.CheckTransfer(acc, big.NewInt(1000), 50))

	// at now=150 locked is 500
	assert.NoError(t, ledger.CheckTransfer(acc, big.NewInt(500), 150))
	err = ledger.CheckTransfer(acc, big.NewInt(499), 150)
	assert.ErrorIs(t, err, ErrVestingViolation)

	// fully unlocked schedules are removed
	assert.NoError(t, ledger.CheckTransfer(acc, big.NewInt(0), 200))
	got, err := ledger.Record(acc)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestLedgerLockedAmountWithoutRecord(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()
	ledger := NewLedger(state.New(db))

	locked, err := ledger.LockedAmount(cheddar.BytesToAddress([]byte("bob")), 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, locked.Sign())
}

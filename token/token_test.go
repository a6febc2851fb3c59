// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/kv"
	"github.com/alpha-fi/cheddar-farm/state"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

type testClock struct {
	now uint64
}

func (c *testClock) Now() uint64 { return c.now }

var (
	cheddarToken = cheddar.BytesToAddress([]byte("cheddar"))
	alice        = cheddar.BytesToAddress([]byte("alice"))
	bob          = cheddar.BytesToAddress([]byte("bob"))
)

func newTestLedger(t *testing.T) (*Ledger, *vesting.Ledger, *testClock) {
	st := state.New(kv.NewMem())
	vest := vesting.NewLedger(st)
	clock := &testClock{now: 100}
	l := NewLedger(st, vest, cheddarToken, clock)
	require.NoError(t, l.RegisterAccount(alice))
	require.NoError(t, l.RegisterAccount(bob))
	require.NoError(t, l.Mint(cheddarToken, alice, big.NewInt(1000)))
	return l, vest, clock
}

func TestMintAndTransfer(t *testing.T) {
	l, _, _ := newTestLedger(t)

	require.NoError(t, l.Transfer(cheddarToken, alice, bob, big.NewInt(300)))

	b, err := l.BalanceOf(cheddarToken, alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(700), b)
	b, err = l.BalanceOf(cheddarToken, bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), b)
}

func TestTransferChecks(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.Transfer(cheddarToken, alice, bob, big.NewInt(1001))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	stranger := cheddar.BytesToAddress([]byte("stranger"))
	err = l.Transfer(cheddarToken, alice, stranger, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotRegistered)

	err = l.Mint(cheddarToken, stranger, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotRegistered)

	assert.Error(t, l.Transfer(cheddarToken, alice, bob, new(big.Int)))
}

func TestVestingGate(t *testing.T) {
	l, vest, clock := newTestLedger(t)

	// 600 of alice's tokens vest linearly between 200 and 400
	rec, err := vesting.NewRecord(big.NewInt(600), 200, 400)
	require.NoError(t, err)
	require.NoError(t, vest.Set(alice, rec))

	// before the cliff only the unvested remainder moves
	err = l.Transfer(cheddarToken, alice, bob, big.NewInt(500))
	assert.ErrorIs(t, err, vesting.ErrVestingViolation)
	require.NoError(t, l.Transfer(cheddarToken, alice, bob, big.NewInt(400)))

	// halfway through the window half of the vested amount unlocked
	clock.now = 300
	err = l.Transfer(cheddarToken, alice, bob, big.NewInt(301))
	assert.ErrorIs(t, err, vesting.ErrVestingViolation)
	require.NoError(t, l.Transfer(cheddarToken, alice, bob, big.NewInt(300)))

	// fully vested
	clock.now = 400
	require.NoError(t, l.Transfer(cheddarToken, alice, bob, big.NewInt(300)))

	b, err := l.BalanceOf(cheddarToken, alice)
	require.NoError(t, err)
	assert.Zero(t, b.Sign())
}

func TestVestingOnlyGatesVestingToken(t *testing.T) {
	l, vest, _ := newTestLedger(t)

	other := cheddar.BytesToAddress([]byte("other-token"))
	require.NoError(t, l.Mint(other, alice, big.NewInt(1000)))

	rec, err := vesting.NewRecord(big.NewInt(1000), 200, 400)
	require.NoError(t, err)
	require.NoError(t, vest.Set(alice, rec))

	// the other token is not vested and moves freely
	require.NoError(t, l.Transfer(other, alice, bob, big.NewInt(1000)))
}

func TestAccountTransfer(t *testing.T) {
	l, _, _ := newTestLedger(t)
	acc := l.Account(alice)

	ok := make(chan bool, 1)
	acc.Transfer(cheddarToken, bob, big.NewInt(100), "test", func(res bool) { ok <- res })
	assert.True(t, <-ok)

	acc.Transfer(cheddarToken, bob, big.NewInt(10_000), "test", func(res bool) { ok <- res })
	assert.False(t, <-ok)

	b, err := l.BalanceOf(cheddarToken, bob)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), b)
}

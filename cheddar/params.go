// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cheddar defines the base identity types and protocol constants
// shared by the farming and vesting ledgers.
package cheddar

import "math/big"

const (
	// Round is the duration of a single farming round, in seconds.
	Round uint64 = 60

	// AccOverflow scales the reward accumulator numerator so that the
	// per round emission divided by the total staked units does not
	// truncate to zero under integer division.
	AccOverflow uint64 = 10_000_000 // 1e7

	// BasisPoints is the denominator of fee and boost rates.
	BasisPoints uint64 = 10_000
)

var (
	// E24 is one whole token in fixed point units.
	E24 = new(big.Int).Mul(big.NewInt(1e12), big.NewInt(1e12))

	// MilliToken is 1/1000 of a whole token.
	MilliToken = new(big.Int).Mul(big.NewInt(1e12), big.NewInt(1e9))

	// MaxStake bounds the stake of a single vault per token.
	MaxStake = new(big.Int).Mul(E24, big.NewInt(100_000))

	// StorageCost is the bookkeeping deposit reserved when an account
	// registers. It is refunded when the vault is closed.
	StorageCost = new(big.Int).Mul(MilliToken, big.NewInt(60))

	// NativeToken is the address the ledgers use for the host's native token.
	NativeToken = Address{}
)

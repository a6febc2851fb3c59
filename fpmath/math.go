// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fpmath provides overflow checked arithmetic on fixed point token
// amounts. Token amounts are expressed at 1e24 scale, so plain 256-bit
// multiplication may overflow; products are computed with 512-bit
// intermediates and checked on the way back down.
package fpmath

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrOverflow is returned when a result does not fit into 256 bits,
// or when an input is negative or a divisor is zero.
var ErrOverflow = errors.New("arithmetic overflow")

// MulDiv computes x * y / d with a 512-bit intermediate product.
func MulDiv(x, y, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, errors.WithMessage(ErrOverflow, "zero divisor")
	}
	ux, err := toU256(x)
	if err != nil {
		return nil, err
	}
	uy, err := toU256(y)
	if err != nil {
		return nil, err
	}
	ud, err := toU256(d)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud)
	if overflow {
		return nil, errors.WithMessage(ErrOverflow, "mul-div result exceeds 256 bits")
	}
	return res.ToBig(), nil
}

// Proportional returns amount * numerator / denominator.
func Proportional(amount *big.Int, numerator, denominator uint64) (*big.Int, error) {
	return MulDiv(amount, new(big.Int).SetUint64(numerator), new(big.Int).SetUint64(denominator))
}

// Add returns x + y, rejecting results beyond 256 bits.
func Add(x, y *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(x, y)
	if sum.BitLen() > 256 {
		return nil, errors.WithMessage(ErrOverflow, "sum exceeds 256 bits")
	}
	return sum, nil
}

func toU256(b *big.Int) (*uint256.Int, error) {
	if b.Sign() < 0 {
		return nil, errors.WithMessage(ErrOverflow, "negative amount")
	}
	u := new(uint256.Int)
	if u.SetFromBig(b) {
		return nil, errors.WithMessage(ErrOverflow, "amount exceeds 256 bits")
	}
	return u, nil
}

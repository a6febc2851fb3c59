// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fpmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func e(base int64, exp int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(base), new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
}

func TestMulDiv(t *testing.T) {
	// 2e24 * 1e24 / 1e24 == 2e24; the plain product needs ~160 bits.
	got, err := MulDiv(e(2, 24), e(1, 24), e(1, 24))
	assert.NoError(t, err)
	assert.Equal(t, e(2, 24), got)

	// truncating division
	got, err = MulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(10), got)

	// intermediate beyond 256 bits is fine as long as the result fits
	huge := e(1, 70)
	got, err = MulDiv(huge, huge, huge)
	assert.NoError(t, err)
	assert.Equal(t, huge, got)
}

func TestMulDivErrors(t *testing.T) {
	_, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = MulDiv(big.NewInt(-1), big.NewInt(1), big.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)

	// result overflows 256 bits
	huge := e(1, 76)
	_, err = MulDiv(huge, huge, big.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestProportional(t *testing.T) {
	// 1000 * (200-150) / (200-100) == 500
	got, err := Proportional(big.NewInt(1000), 50, 100)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(500), got)
}

func TestAdd(t *testing.T) {
	got, err := Add(big.NewInt(1), big.NewInt(2))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(3), got)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err = Add(max, big.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

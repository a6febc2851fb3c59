// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/fpmath"
)

// farmedTokens translates units into a token amount: units * rate / 1e24.
func farmedTokens(units, rate *big.Int) (*big.Int, error) {
	return fpmath.MulDiv(units, rate, cheddar.E24)
}

// minStake converts the per token staked quantities into the vault's base
// weight: the minimum of staked[i]*rate[i]/1e24 over all stake tokens.
// The scarcest token caps the weight, so over-supplying a single cheap
// token doesn't game the farm.
func minStake(staked, rates []*big.Int) (*big.Int, error) {
	var min *big.Int
	for i, rate := range rates {
		s, err := farmedTokens(staked[i], rate)
		if err != nil {
			return nil, err
		}
		if min == nil || s.Cmp(min) < 0 {
			min = s
		}
	}
	if min == nil {
		min = new(big.Int)
	}
	return min, nil
}

// stakeWeight applies the boost on top of the capped base weight.
func stakeWeight(staked, rates []*big.Int, boosted bool, boostBps uint32) (*big.Int, error) {
	s, err := minStake(staked, rates)
	if err != nil {
		return nil, err
	}
	if boosted && boostBps > 0 {
		bonus, err := fpmath.Proportional(s, uint64(boostBps), cheddar.BasisPoints)
		if err != nil {
			return nil, err
		}
		s.Add(s, bonus)
	}
	return s, nil
}

// feeOf computes the unstake fee withheld for the treasury.
func feeOf(t *Terms, amount *big.Int) (*big.Int, error) {
	if t.FeeBps == 0 {
		return new(big.Int), nil
	}
	return fpmath.Proportional(amount, uint64(t.FeeBps), cheddar.BasisPoints)
}

// recomputeStake re-derives the vault's weight and applies the delta to
// the global staked units. The vault must be settled first, otherwise the
// account would earn under the new weight for rounds that already elapsed.
func (f *Farm) recomputeStake(t *Terms, g *globalState, v *Vault) error {
	s, err := stakeWeight(v.Staked, t.StakeRates, v.Boost != "", t.BoostBps)
	if err != nil {
		return err
	}
	switch s.Cmp(v.Weight) {
	case 1:
		diff := new(big.Int).Sub(s, v.Weight)
		g.StakedUnits.Add(g.StakedUnits, diff)
	case -1:
		diff := new(big.Int).Sub(v.Weight, s)
		g.StakedUnits.Sub(g.StakedUnits, diff)
	}
	v.Weight = s
	return nil
}

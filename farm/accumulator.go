// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/alpha-fi/cheddar-farm/fpmath"
	"github.com/alpha-fi/cheddar-farm/metrics"
)

var metricSettlements = metrics.LazyLoadCounterVec("farm_settlements_count", []string{"kind"})

// computeRewardAcc returns the reward accumulator value at the given round.
// Nothing is attributed while no units are staked, and repeated calls
// within a round return the stored value unchanged.
// NOTE: no units are farmed at all if emission * AccOverflow / StakedUnits
// truncates to zero; AccOverflow is sized to keep that out of reach for
// sane emission rates.
func computeRewardAcc(t *Terms, g *globalState, round uint64) (*big.Int, error) {
	if round <= g.RewardAccRound || g.StakedUnits.Sign() == 0 {
		return new(big.Int).Set(g.RewardAcc), nil
	}
	elapsed := new(big.Int).SetUint64(round - g.RewardAccRound)
	minted := elapsed.Mul(elapsed, t.Emission)
	scaled, err := fpmath.MulDiv(minted, accOverflow, g.StakedUnits)
	if err != nil {
		return nil, err
	}
	return fpmath.Add(g.RewardAcc, scaled)
}

// updateRewardAcc advances the accumulator to the given round.
// Emission over intervals with zero staked units is forfeited: the round
// pointer still moves forward, so the gap is never credited once weight
// reappears.
func updateRewardAcc(t *Terms, g *globalState, round uint64) error {
	newAcc, err := computeRewardAcc(t, g, round)
	if err != nil {
		return err
	}
	if g.StakedUnits.Sign() == 0 || newAcc.Cmp(g.RewardAcc) != 0 {
		g.RewardAcc = newAcc
		g.RewardAccRound = round
	}
	return nil
}

// pingAll advances the global accumulator to the current round, then
// settles the vault against it.
func (f *Farm) pingAll(t *Terms, g *globalState, v *Vault) error {
	r := f.currentRound(t)
	if err := updateRewardAcc(t, g, r); err != nil {
		return err
	}
	if err := v.ping(g.RewardAcc, r); err != nil {
		return err
	}
	metricSettlements().WithLabelValues("vault").Inc()
	return nil
}

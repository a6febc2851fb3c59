// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/fpmath"
)

var accOverflow = new(big.Int).SetUint64(cheddar.AccOverflow)

// Vault is the per account ledger entry of a farm.
type Vault struct {
	// RewardAcc is the global accumulator value as of the last settlement.
	RewardAcc *big.Int
	// Staked quantities, one per farm stake token.
	Staked []*big.Int
	// Weight is the memoized stake weight derived from Staked and the boost.
	Weight *big.Int
	// Farmed is the amount of accrued, not yet withdrawn farm units.
	Farmed *big.Int
	// Recovered holds failed claim payouts per farm token, redelivered on
	// the next claim.
	Recovered []*big.Int
	// Boost is the token id of the deposited boost token, empty when none.
	Boost string
}

func newVault(stakeTokens, farmTokens int, rewardAcc *big.Int) *Vault {
	return &Vault{
		RewardAcc: new(big.Int).Set(rewardAcc),
		Staked:    zeros(stakeTokens),
		Weight:    new(big.Int),
		Farmed:    new(big.Int),
		Recovered: zeros(farmTokens),
	}
}

// ping settles rewards accrued in past rounds against the global
// accumulator. It must run before any mutation of the vault's stake or
// weight, and before reading Farmed, so stake changes never retroactively
// affect already elapsed rounds.
func (v *Vault) ping(rewardAcc *big.Int, round uint64) error {
	// farming didn't start yet
	if round == 0 {
		return nil
	}
	// already settled, repeated calls within a round are no-ops
	if v.RewardAcc.Cmp(rewardAcc) >= 0 {
		return nil
	}
	diff := new(big.Int).Sub(rewardAcc, v.RewardAcc)
	gain, err := fpmath.MulDiv(v.Weight, diff, accOverflow)
	if err != nil {
		return err
	}
	v.Farmed.Add(v.Farmed, gain)
	v.RewardAcc.Set(rewardAcc)
	return nil
}

func (v *Vault) isEmpty() bool {
	return allZeros(v.Staked) && v.Farmed.Sign() == 0 && allZeros(v.Recovered) && v.Boost == ""
}

func (v *Vault) clone() *Vault {
	return &Vault{
		RewardAcc: new(big.Int).Set(v.RewardAcc),
		Staked:    copyInts(v.Staked),
		Weight:    new(big.Int).Set(v.Weight),
		Farmed:    new(big.Int).Set(v.Farmed),
		Recovered: copyInts(v.Recovered),
		Boost:     v.Boost,
	}
}

// Encode implements state.StructedStorage. An empty vault still encodes:
// vault existence is what makes an account registered.
func (v *Vault) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(v)
}

// Decode implements state.StructedStorage.
func (v *Vault) Decode(data []byte) error {
	if len(data) == 0 {
		*v = *newVault(0, 0, new(big.Int))
		return nil
	}
	return rlp.DecodeBytes(data, v)
}

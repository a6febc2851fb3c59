// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/state"
)

// Terms are the immutable parameters of a farm, fixed at initialization
// (the owner may still move the farming window before it opens).
type Terms struct {
	Owner    cheddar.Address
	Treasury cheddar.Address

	// Tokens accepted for staking; rates translate staked quantities into
	// stake units: units = staked * rate / 1e24. The first rate must be 1e24.
	StakeTokens []cheddar.Address
	StakeRates  []*big.Int

	// Tokens paid out when claiming; rates translate farmed units into
	// token amounts the same way.
	FarmTokens     []cheddar.Address
	FarmTokenRates []*big.Int

	// Emission is the amount of farm units minted per round.
	Emission *big.Int

	// Farming window, unix seconds.
	Start uint64
	End   uint64

	// BoostToken designates the contract whose deposited token raises the
	// holder's stake weight by BoostBps basis points.
	BoostToken cheddar.Address
	BoostBps   uint32

	// FeeBps is charged on unstaked amounts and collected for the treasury.
	FeeBps uint32
}

func (t *Terms) validate() error {
	if t.End <= t.Start {
		return errors.New("farming end must be after start")
	}
	if len(t.StakeTokens) == 0 || len(t.StakeTokens) != len(t.StakeRates) {
		return errors.New("stake token vector length is not correct")
	}
	if len(t.FarmTokens) == 0 || len(t.FarmTokens) != len(t.FarmTokenRates) {
		return errors.New("farm token vector length is not correct")
	}
	for i, rate := range t.StakeRates {
		if rate == nil || rate.Sign() <= 0 {
			return errors.Errorf("stake rate of token %d must be positive", i)
		}
	}
	for i, rate := range t.FarmTokenRates {
		if rate == nil || rate.Sign() <= 0 {
			return errors.Errorf("farm token rate of token %d must be positive", i)
		}
	}
	if t.StakeRates[0].Cmp(cheddar.E24) != 0 {
		return errors.New("stake rate of the first token must be 1e24")
	}
	if t.Emission == nil || t.Emission.Sign() <= 0 {
		return errors.New("emission must be positive")
	}
	if uint64(t.FeeBps) >= cheddar.BasisPoints {
		return errors.New("fee rate must be below 100%")
	}
	return nil
}

// Encode implements state.StructedStorage.
func (t *Terms) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// Decode implements state.StructedStorage.
func (t *Terms) Decode(data []byte) error {
	if len(data) == 0 {
		*t = Terms{}
		return nil
	}
	return rlp.DecodeBytes(data, t)
}

// globalState is the mutable per farm record shared by all vaults.
type globalState struct {
	// StakedUnits is the sum of all vaults' stake weight.
	StakedUnits *big.Int
	// RewardAcc is the cumulative reward per stake unit, scaled by
	// cheddar.AccOverflow. It never decreases.
	RewardAcc *big.Int
	// RewardAccRound is the round RewardAcc was last advanced at.
	RewardAccRound uint64

	TotalStake     []*big.Int
	TotalHarvested []*big.Int
	FeeCollected   []*big.Int
	FarmDeposits   []*big.Int

	AccountsRegistered uint64
	SetupFinalized     bool
	Active             bool
}

func newGlobalState(stakeTokens, farmTokens int) *globalState {
	return &globalState{
		StakedUnits:    new(big.Int),
		RewardAcc:      new(big.Int),
		TotalStake:     zeros(stakeTokens),
		TotalHarvested: zeros(farmTokens),
		FeeCollected:   zeros(stakeTokens),
		FarmDeposits:   zeros(farmTokens),
		Active:         true,
	}
}

// Encode implements state.StructedStorage.
func (g *globalState) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(g)
}

// Decode implements state.StructedStorage.
func (g *globalState) Decode(data []byte) error {
	if len(data) == 0 {
		*g = globalState{StakedUnits: new(big.Int), RewardAcc: new(big.Int)}
		return nil
	}
	return rlp.DecodeBytes(data, g)
}

var (
	_ state.StructedStorage = (*Terms)(nil)
	_ state.StructedStorage = (*globalState)(nil)
	_ state.StructedStorage = (*Vault)(nil)
)

func zeros(n int) []*big.Int {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

func allZeros(v []*big.Int) bool {
	for _, x := range v {
		if x.Sign() != 0 {
			return false
		}
	}
	return true
}

func copyInts(v []*big.Int) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Set(x)
	}
	return out
}

func indexOf(tokens []cheddar.Address, token cheddar.Address) int {
	for i, t := range tokens {
		if t == token {
			return i
		}
	}
	return -1
}

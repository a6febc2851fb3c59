// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

// Status is an account's settled view of its vault.
type Status struct {
	StakeTokens []cheddar.Address
	Staked      []*big.Int
	Weight      *big.Int

	FarmTokens []cheddar.Address
	// Farmed is the claimable amount per farm token, accrued rewards plus
	// parked failed payouts.
	Farmed []*big.Int

	Boost string
	// Timestamp is the start of the round the vault is settled to.
	Timestamp uint64
}

// Overview is the farm wide state, for operators and the API.
type Overview struct {
	Terms *Terms

	StakedUnits    *big.Int
	TotalStake     []*big.Int
	TotalHarvested []*big.Int
	FeeCollected   []*big.Int
	FarmDeposits   []*big.Int

	AccountsRegistered uint64
	CurrentRound       uint64
	SetupFinalized     bool
	Active             bool
}

// Status settles the account's vault against the current round and
// reports the result. The global accumulator advance is persisted, the
// vault itself is only previewed.
func (f *Farm) Status(acc cheddar.Address) (*Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return nil, err
	}
	g, err := f.global()
	if err != nil {
		return nil, err
	}
	v, err := f.getVault(acc)
	if err != nil {
		return nil, err
	}
	preview := v.clone()
	if err := f.pingAll(t, g, preview); err != nil {
		return nil, err
	}
	if err := f.saveGlobal(g); err != nil {
		return nil, err
	}

	farmed := make([]*big.Int, len(t.FarmTokens))
	for i, rate := range t.FarmTokenRates {
		leg, err := farmedTokens(preview.Farmed, rate)
		if err != nil {
			return nil, err
		}
		farmed[i] = leg.Add(leg, preview.Recovered[i])
	}
	r := f.currentRound(t)
	var settled uint64
	if r > 1 {
		settled = r - 1
	}
	return &Status{
		StakeTokens: t.StakeTokens,
		Staked:      copyInts(preview.Staked),
		Weight:      new(big.Int).Set(preview.Weight),
		FarmTokens:  t.FarmTokens,
		Farmed:      farmed,
		Boost:       preview.Boost,
		Timestamp:   t.Start + settled*cheddar.Round,
	}, nil
}

// Overview reports the farm wide state without touching any vault.
func (f *Farm) Overview() (*Overview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return nil, err
	}
	g, err := f.global()
	if err != nil {
		return nil, err
	}
	return &Overview{
		Terms:              t,
		StakedUnits:        new(big.Int).Set(g.StakedUnits),
		TotalStake:         copyInts(g.TotalStake),
		TotalHarvested:     copyInts(g.TotalHarvested),
		FeeCollected:       copyInts(g.FeeCollected),
		FarmDeposits:       copyInts(g.FarmDeposits),
		AccountsRegistered: g.AccountsRegistered,
		CurrentRound:       f.currentRound(t),
		SetupFinalized:     g.SetupFinalized,
		Active:             g.Active,
	}, nil
}

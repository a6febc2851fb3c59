// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"github.com/alpha-fi/cheddar-farm/api/utils"
	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/farm"
)

// Overview is the JSON form of a farm's state. Amounts are decimal
// strings.
type Overview struct {
	Owner    cheddar.Address `json:"owner"`
	Treasury cheddar.Address `json:"treasury"`

	StakeTokens []cheddar.Address `json:"stakeTokens"`
	StakeRates  []string          `json:"stakeRates"`
	FarmTokens  []cheddar.Address `json:"farmTokens"`
	FarmRates   []string          `json:"farmTokenRates"`

	Emission string `json:"emission"`
	Start    uint64 `json:"start"`
	End      uint64 `json:"end"`

	StakedUnits    string   `json:"stakedUnits"`
	TotalStake     []string `json:"totalStake"`
	TotalHarvested []string `json:"totalHarvested"`
	FeeCollected   []string `json:"feeCollected"`
	FarmDeposits   []string `json:"farmDeposits"`

	AccountsRegistered uint64 `json:"accountsRegistered"`
	CurrentRound       uint64 `json:"currentRound"`
	SetupFinalized     bool   `json:"setupFinalized"`
	Active             bool   `json:"active"`
}

func convertOverview(ov *farm.Overview) *Overview {
	return &Overview{
		Owner:              ov.Terms.Owner,
		Treasury:           ov.Terms.Treasury,
		StakeTokens:        ov.Terms.StakeTokens,
		StakeRates:         utils.Amounts(ov.Terms.StakeRates),
		FarmTokens:         ov.Terms.FarmTokens,
		FarmRates:          utils.Amounts(ov.Terms.FarmTokenRates),
		Emission:           ov.Terms.Emission.String(),
		Start:              ov.Terms.Start,
		End:                ov.Terms.End,
		StakedUnits:        ov.StakedUnits.String(),
		TotalStake:         utils.Amounts(ov.TotalStake),
		TotalHarvested:     utils.Amounts(ov.TotalHarvested),
		FeeCollected:       utils.Amounts(ov.FeeCollected),
		FarmDeposits:       utils.Amounts(ov.FarmDeposits),
		AccountsRegistered: ov.AccountsRegistered,
		CurrentRound:       ov.CurrentRound,
		SetupFinalized:     ov.SetupFinalized,
		Active:             ov.Active,
	}
}

// Status is the JSON form of an account's settled vault.
type Status struct {
	StakeTokens []cheddar.Address `json:"stakeTokens"`
	Staked      []string          `json:"staked"`
	Weight      string            `json:"weight"`

	FarmTokens []cheddar.Address `json:"farmTokens"`
	Farmed     []string          `json:"farmed"`

	Boost     string `json:"boost,omitempty"`
	Timestamp uint64 `json:"timestamp"`
}

func convertStatus(st *farm.Status) *Status {
	return &Status{
		StakeTokens: st.StakeTokens,
		Staked:      utils.Amounts(st.Staked),
		Weight:      st.Weight.String(),
		FarmTokens:  st.FarmTokens,
		Farmed:      utils.Amounts(st.Farmed),
		Boost:       st.Boost,
		Timestamp:   st.Timestamp,
	}
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/farm"
)

// tokenConfig pairs a token with its unit rate. The rate defaults to 1e24
// (one stake or farm unit per whole token).
type tokenConfig struct {
	Address string `yaml:"address"`
	Rate    string `yaml:"rate"`
}

type farmConfig struct {
	Name     string `yaml:"name"`
	Owner    string `yaml:"owner"`
	Treasury string `yaml:"treasury"`

	StakeTokens []tokenConfig `yaml:"stakeTokens"`
	FarmTokens  []tokenConfig `yaml:"farmTokens"`

	Emission string `yaml:"emission"`
	Start    uint64 `yaml:"start"`
	End      uint64 `yaml:"end"`

	BoostToken string `yaml:"boostToken"`
	BoostBps   uint32 `yaml:"boostBps"`
	FeeBps     uint32 `yaml:"feeBps"`
}

type config struct {
	// VestingToken is the token the vesting ledger locks. Empty disables
	// vesting checks.
	VestingToken string       `yaml:"vestingToken"`
	Farms        []farmConfig `yaml:"farms"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	if len(cfg.Farms) == 0 {
		return nil, errors.New("config defines no farms")
	}
	seen := make(map[string]bool)
	for _, fc := range cfg.Farms {
		if fc.Name == "" {
			return nil, errors.New("farm name must not be empty")
		}
		if seen[fc.Name] {
			return nil, errors.Errorf("duplicated farm name %q", fc.Name)
		}
		seen[fc.Name] = true
	}
	return &cfg, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("not a decimal amount: %q", s)
	}
	return v, nil
}

func parseTokens(cfgs []tokenConfig) ([]cheddar.Address, []*big.Int, error) {
	tokens := make([]cheddar.Address, len(cfgs))
	rates := make([]*big.Int, len(cfgs))
	for i, tc := range cfgs {
		addr, err := cheddar.ParseAddress(tc.Address)
		if err != nil {
			return nil, nil, errors.WithMessage(err, "token address")
		}
		tokens[i] = *addr
		if tc.Rate == "" {
			rates[i] = new(big.Int).Set(cheddar.E24)
			continue
		}
		if rates[i], err = parseAmount(tc.Rate); err != nil {
			return nil, nil, errors.WithMessage(err, "token rate")
		}
	}
	return tokens, rates, nil
}

func (fc *farmConfig) terms() (*farm.Terms, error) {
	owner, err := cheddar.ParseAddress(fc.Owner)
	if err != nil {
		return nil, errors.WithMessage(err, "owner")
	}
	treasury := owner
	if fc.Treasury != "" {
		if treasury, err = cheddar.ParseAddress(fc.Treasury); err != nil {
			return nil, errors.WithMessage(err, "treasury")
		}
	}
	stakeTokens, stakeRates, err := parseTokens(fc.StakeTokens)
	if err != nil {
		return nil, err
	}
	farmTokens, farmRates, err := parseTokens(fc.FarmTokens)
	if err != nil {
		return nil, err
	}
	emission, err := parseAmount(fc.Emission)
	if err != nil {
		return nil, errors.WithMessage(err, "emission")
	}
	t := &farm.Terms{
		Owner:          *owner,
		Treasury:       *treasury,
		StakeTokens:    stakeTokens,
		StakeRates:     stakeRates,
		FarmTokens:     farmTokens,
		FarmTokenRates: farmRates,
		Emission:       emission,
		Start:          fc.Start,
		End:            fc.End,
		BoostBps:       fc.BoostBps,
		FeeBps:         fc.FeeBps,
	}
	if fc.BoostToken != "" {
		boost, err := cheddar.ParseAddress(fc.BoostToken)
		if err != nil {
			return nil, errors.WithMessage(err, "boost token")
		}
		t.BoostToken = *boost
	}
	return t, nil
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm implements the reward distribution engine of a token farm:
// a continuously emitted reward stream split among stakers whose stake
// changes at arbitrary times, without ever iterating over all of them.
// It follows the "Scalable Reward Distribution on the Ethereum Blockchain"
// accumulator algorithm:
// https://uploads-ssl.webflow.com/5ad71ffeb79acc67c8bcdaba/5ad8d1193a40977462982470_scalable-reward-distribution-paper.pdf
package farm

import (
	"math/big"
	"sync"

	log15 "github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/metrics"
	"github.com/alpha-fi/cheddar-farm/state"
)

var (
	logger         = log15.New("pkg", "farm")
	metricOps      = metrics.LazyLoadCounterVec("farm_ops_count", []string{"op"})
	metricAccounts = metrics.Gauge("farm_accounts_gauge")
)

// Farm is one farm instance over its own slice of ledger state.
// Each call runs to completion under the farm lock; asynchronous transfer
// callbacks re-enter through the same settle-then-mutate path.
type Farm struct {
	mu       sync.Mutex
	id       cheddar.Address
	state    *state.State
	ledger   TokenLedger
	registry Registry
	clock    Clock
	log      log15.Logger
}

// New creates a farm handle over the given state.
// Call Init once to set the farm's terms before any other operation.
func New(id cheddar.Address, st *state.State, ledger TokenLedger, registry Registry, clock Clock) *Farm {
	return &Farm{
		id:       id,
		state:    st,
		ledger:   ledger,
		registry: registry,
		clock:    clock,
		log:      logger.New("farm", id.String()),
	}
}

// ID returns the farm's account address.
func (f *Farm) ID() cheddar.Address { return f.id }

// Init writes the farm terms and an empty global state.
// The farm starts active but not finalized: reward deposits must be made
// and FinalizeSetup called before staking opens.
func (f *Farm) Init(t *Terms) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	has, err := f.state.Has(termsKey)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyInitialized
	}
	if err := t.validate(); err != nil {
		return err
	}
	if err := f.saveTerms(t); err != nil {
		return err
	}
	if err := f.saveGlobal(newGlobalState(len(t.StakeTokens), len(t.FarmTokens))); err != nil {
		return err
	}
	f.log.Info("farm initialized", "start", t.Start, "end", t.End, "emission", t.Emission)
	return nil
}

// Register creates an empty vault for the account, reserving the storage
// deposit. Any excess deposit is refunded.
func (f *Farm) Register(acc cheddar.Address, deposit *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	registered, err := f.registry.IsRegistered(acc)
	if err != nil {
		return err
	}
	if !registered {
		return errors.WithMessage(ErrNotRegistered, "host ledger")
	}
	has, err := f.hasVault(acc)
	if err != nil {
		return err
	}
	if has {
		return ErrAlreadyRegistered
	}
	if deposit == nil || deposit.Cmp(cheddar.StorageCost) < 0 {
		return errors.WithMessagef(ErrInsufficientDeposit, "minimum %v", cheddar.StorageCost)
	}
	g, err := f.global()
	if err != nil {
		return err
	}
	if err := f.saveVault(acc, newVault(len(t.StakeTokens), len(t.FarmTokens), g.RewardAcc)); err != nil {
		return err
	}
	g.AccountsRegistered++
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	metricAccounts.Inc()
	if refund := new(big.Int).Sub(deposit, cheddar.StorageCost); refund.Sign() > 0 {
		f.ledger.Transfer(cheddar.NativeToken, acc, refund, "storage deposit refund", func(bool) {})
	}
	f.log.Debug("account registered", "account", acc)
	metricOps().WithLabelValues("register").Inc()
	return nil
}

// Stake books tokens, already received by the farm, into the account's
// vault and returns the new stake weight.
func (f *Farm) Stake(acc, token cheddar.Address, amount *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, g, err := f.activeState()
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("staked amount must be positive")
	}
	i := indexOf(t.StakeTokens, token)
	if i < 0 {
		return nil, errors.WithMessage(ErrTokenNotAccepted, token.String())
	}
	v, err := f.getVault(acc)
	if err != nil {
		return nil, err
	}
	// settle past rounds before touching the stake
	if err := f.pingAll(t, g, v); err != nil {
		return nil, err
	}
	v.Staked[i].Add(v.Staked[i], amount)
	if v.Staked[i].Cmp(cheddar.MaxStake) > 0 {
		return nil, errors.WithMessagef(ErrMaxStakeExceeded, "maximum %v", cheddar.MaxStake)
	}
	if err := f.recomputeStake(t, g, v); err != nil {
		return nil, err
	}
	g.TotalStake[i].Add(g.TotalStake[i], amount)
	if err := f.saveVault(acc, v); err != nil {
		return nil, err
	}
	if err := f.saveGlobal(g); err != nil {
		return nil, err
	}
	f.log.Debug("staked", "account", acc, "token", token, "amount", amount)
	metricOps().WithLabelValues("stake").Inc()
	return new(big.Int).Set(v.Weight), nil
}

// Unstake removes tokens from the vault and transfers them back to the
// account, minus the unstake fee. It returns the remaining stake weight.
// The outbound transfer completes asynchronously; on failure the full
// amount is re-credited to the vault.
func (f *Farm) Unstake(acc, token cheddar.Address, amount *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, g, err := f.activeState()
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("unstaked amount must be positive")
	}
	i := indexOf(t.StakeTokens, token)
	if i < 0 {
		return nil, errors.WithMessage(ErrTokenNotAccepted, token.String())
	}
	v, err := f.getVault(acc)
	if err != nil {
		return nil, err
	}
	if v.Staked[i].Cmp(amount) < 0 {
		return nil, errors.WithMessagef(ErrInsufficientStake, "staked %v", v.Staked[i])
	}
	if err := f.pingAll(t, g, v); err != nil {
		return nil, err
	}
	v.Staked[i].Sub(v.Staked[i], amount)
	if err := f.recomputeStake(t, g, v); err != nil {
		return nil, err
	}
	g.TotalStake[i].Sub(g.TotalStake[i], amount)
	if err := f.saveVault(acc, v); err != nil {
		return nil, err
	}
	if err := f.saveGlobal(g); err != nil {
		return nil, err
	}
	f.transferStaked(t, acc, i, amount)
	metricOps().WithLabelValues("unstake").Inc()
	return new(big.Int).Set(v.Weight), nil
}

// Claim settles the vault and pays out all accrued farm tokens.
// It returns the farm units claimed. Payouts complete asynchronously; a
// failed payout is parked in the vault and redelivered on the next claim.
func (f *Farm) Claim(acc cheddar.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, g, err := f.activeState()
	if err != nil {
		return nil, err
	}
	v, err := f.getVault(acc)
	if err != nil {
		return nil, err
	}
	if err := f.pingAll(t, g, v); err != nil {
		return nil, err
	}
	units := new(big.Int).Set(v.Farmed)

	legs := make([]*big.Int, len(t.FarmTokens))
	for i, rate := range t.FarmTokenRates {
		leg, err := farmedTokens(units, rate)
		if err != nil {
			return nil, err
		}
		legs[i] = leg.Add(leg, v.Recovered[i])
	}
	if units.Sign() == 0 && allZeros(legs) {
		return nil, ErrNothingToClaim
	}
	// zero the vault before transferring; failed legs are re-added by the
	// transfer callbacks
	v.Farmed = new(big.Int)
	v.Recovered = zeros(len(t.FarmTokens))
	for i, leg := range legs {
		g.TotalHarvested[i].Add(g.TotalHarvested[i], leg)
	}
	if err := f.saveVault(acc, v); err != nil {
		return nil, err
	}
	if err := f.saveGlobal(g); err != nil {
		return nil, err
	}
	for i, leg := range legs {
		if leg.Sign() == 0 {
			continue
		}
		i, leg := i, new(big.Int).Set(leg)
		f.ledger.Transfer(t.FarmTokens[i], acc, leg, "farming", func(ok bool) {
			f.onFarmedTransferDone(acc, i, leg, ok)
		})
	}
	f.log.Debug("claimed", "account", acc, "units", units)
	metricOps().WithLabelValues("claim").Inc()
	return units, nil
}

// Close removes the account's vault and refunds the storage deposit.
// It fails unless the vault, after settlement, holds no stake, no accrued
// reward and no boost token.
func (f *Farm) Close(acc cheddar.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	g, err := f.global()
	if err != nil {
		return err
	}
	v, err := f.getVault(acc)
	if err != nil {
		return err
	}
	if err := f.pingAll(t, g, v); err != nil {
		return err
	}
	if !v.isEmpty() {
		return ErrVaultNotEmpty
	}
	if err := f.deleteVault(acc); err != nil {
		return err
	}
	g.AccountsRegistered--
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	metricAccounts.Dec()
	f.ledger.Transfer(cheddar.NativeToken, acc, new(big.Int).Set(cheddar.StorageCost), "storage deposit refund", func(ok bool) {
		f.onRefundDone(acc, ok)
	})
	f.log.Debug("account closed", "account", acc)
	metricOps().WithLabelValues("close").Inc()
	return nil
}

// DepositBoost books the designated boost token into the vault, raising
// the account's stake weight. Only one boost token can be deposited.
func (f *Farm) DepositBoost(acc cheddar.Address, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if tokenID == "" {
		return errors.New("boost token id must not be empty")
	}
	t, err := f.terms()
	if err != nil {
		return err
	}
	g, err := f.global()
	if err != nil {
		return err
	}
	v, err := f.getVault(acc)
	if err != nil {
		return err
	}
	if v.Boost != "" {
		return ErrBoostAlreadyDeposited
	}
	if err := f.pingAll(t, g, v); err != nil {
		return err
	}
	v.Boost = tokenID
	if err := f.recomputeStake(t, g, v); err != nil {
		return err
	}
	if err := f.saveVault(acc, v); err != nil {
		return err
	}
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	f.log.Debug("boost deposited", "account", acc, "token", tokenID)
	metricOps().WithLabelValues("deposit_boost").Inc()
	return nil
}

// WithdrawBoost clears the vault's boost flag and returns the token id so
// the collaborator can hand the token back.
func (f *Farm) WithdrawBoost(acc cheddar.Address) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return "", err
	}
	g, err := f.global()
	if err != nil {
		return "", err
	}
	v, err := f.getVault(acc)
	if err != nil {
		return "", err
	}
	if v.Boost == "" {
		return "", ErrNoBoostDeposited
	}
	if err := f.pingAll(t, g, v); err != nil {
		return "", err
	}
	tokenID := v.Boost
	v.Boost = ""
	if err := f.recomputeStake(t, g, v); err != nil {
		return "", err
	}
	if err := f.saveVault(acc, v); err != nil {
		return "", err
	}
	if err := f.saveGlobal(g); err != nil {
		return "", err
	}
	metricOps().WithLabelValues("withdraw_boost").Inc()
	return tokenID, nil
}

func (f *Farm) activeState() (*Terms, *globalState, error) {
	t, err := f.terms()
	if err != nil {
		return nil, nil, err
	}
	g, err := f.global()
	if err != nil {
		return nil, nil, err
	}
	if !g.SetupFinalized || !g.Active {
		return nil, nil, ErrFarmInactive
	}
	return t, g, nil
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

// ExpectedDeposit returns the reward deposit required for the given farm
// token before the setup can be finalized: the whole emission over the
// farming window translated at the token's rate.
func (f *Farm) ExpectedDeposit(token cheddar.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return nil, err
	}
	i := indexOf(t.FarmTokens, token)
	if i < 0 {
		return nil, errors.WithMessage(ErrTokenNotAccepted, token.String())
	}
	return expectedDeposit(t, i)
}

func expectedDeposit(t *Terms, i int) (*big.Int, error) {
	rounds := RoundNumber(t.Start, t.End, t.End)
	minted := new(big.Int).Mul(new(big.Int).SetUint64(rounds), t.Emission)
	return farmedTokens(minted, t.FarmTokenRates[i])
}

// FinalizeSetupExpected reports, per farm token, the deposit required to
// finalize the setup and what was received so far.
func (f *Farm) FinalizeSetupExpected() (expected, received []*big.Int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return nil, nil, err
	}
	g, err := f.global()
	if err != nil {
		return nil, nil, err
	}
	expected = make([]*big.Int, len(t.FarmTokens))
	for i := range t.FarmTokens {
		if expected[i], err = expectedDeposit(t, i); err != nil {
			return nil, nil, err
		}
	}
	return expected, copyInts(g.FarmDeposits), nil
}

// SetupDeposit books a received reward deposit. The amount must exactly
// cover the token's expected deposit, and each token is deposited once.
func (f *Farm) SetupDeposit(token cheddar.Address, amount *big.Int) error {
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
	if g.SetupFinalized {
		return ErrSetupFinalized
	}
	i := indexOf(t.FarmTokens, token)
	if i < 0 {
		return errors.WithMessage(ErrTokenNotAccepted, token.String())
	}
	if g.FarmDeposits[i].Sign() != 0 {
		return ErrDepositDone
	}
	expected, err := expectedDeposit(t, i)
	if err != nil {
		return err
	}
	if amount == nil || amount.Cmp(expected) != 0 {
		return errors.WithMessagef(ErrUnexpectedDeposit, "expected %v", expected)
	}
	g.FarmDeposits[i].Set(amount)
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	f.log.Info("reward deposit received", "token", token, "amount", amount)
	metricOps().WithLabelValues("setup_deposit").Inc()
	return nil
}

// FinalizeSetup seals the farm setup once every reward deposit is in.
// It must run at least one round before farming starts.
func (f *Farm) FinalizeSetup() error {
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
	if g.SetupFinalized {
		return ErrSetupFinalized
	}
	if f.clock.Now()+cheddar.Round > t.Start {
		return errors.New("must be finalized at least one round before the farm start")
	}
	for i, d := range g.FarmDeposits {
		if d.Sign() == 0 {
			return errors.Errorf("missing reward deposit for %v", t.FarmTokens[i])
		}
	}
	g.SetupFinalized = true
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	f.log.Info("setup finalized", "start", t.Start)
	metricOps().WithLabelValues("finalize_setup").Inc()
	return nil
}

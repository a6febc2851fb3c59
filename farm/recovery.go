// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

// transferStaked sends an unstaked amount back to the account, withholding
// the unstake fee. The fee is only booked once the transfer succeeds; on
// failure the full amount is restaked.
func (f *Farm) transferStaked(t *Terms, acc cheddar.Address, i int, amount *big.Int) {
	amount = new(big.Int).Set(amount)
	fee, err := feeOf(t, amount)
	if err != nil {
		// fee computation cannot overflow for any amount below MaxStake;
		// treat a failure as fee-free rather than blocking the payout
		f.log.Error("fee computation failed", "err", err)
		fee = new(big.Int)
	}
	payout := new(big.Int).Sub(amount, fee)
	f.ledger.Transfer(t.StakeTokens[i], acc, payout, "unstake", func(ok bool) {
		f.onStakedTransferDone(acc, i, amount, fee, ok)
	})
}

// onStakedTransferDone finishes an unstake: on success the fee becomes
// farm revenue, on failure the full amount is returned to the vault.
func (f *Farm) onStakedTransferDone(acc cheddar.Address, i int, amount, fee *big.Int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		f.log.Error("unstake callback lost", "err", err)
		return
	}
	g, err := f.global()
	if err != nil {
		f.log.Error("unstake callback lost", "err", err)
		return
	}
	if ok {
		g.FeeCollected[i].Add(g.FeeCollected[i], fee)
		if err := f.saveGlobal(g); err != nil {
			f.log.Error("unstake callback lost", "err", err)
		}
		return
	}
	f.log.Warn("unstake transfer failed, restaking", "account", acc, "amount", amount)
	if err := f.restake(t, g, acc, i, amount); err != nil {
		f.log.Error("restake failed", "account", acc, "err", err)
	}
	metricOps().WithLabelValues("unstake_recovered").Inc()
}

// restake re-credits a failed unstake transfer. The vault may have been
// closed in the meantime; in that case it is recreated so the tokens are
// not lost.
func (f *Farm) restake(t *Terms, g *globalState, acc cheddar.Address, i int, amount *big.Int) error {
	v, err := f.vaultOrNew(t, g, acc)
	if err != nil {
		return err
	}
	if err := f.pingAll(t, g, v); err != nil {
		return err
	}
	v.Staked[i].Add(v.Staked[i], amount)
	if err := f.recomputeStake(t, g, v); err != nil {
		return err
	}
	g.TotalStake[i].Add(g.TotalStake[i], amount)
	if err := f.saveVault(acc, v); err != nil {
		return err
	}
	return f.saveGlobal(g)
}

// onFarmedTransferDone parks a failed reward payout in the vault so the
// next claim redelivers it, and reverses the harvested counter.
func (f *Farm) onFarmedTransferDone(acc cheddar.Address, i int, amount *big.Int, ok bool) {
	if ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.log.Warn("reward transfer failed, parking", "account", acc, "amount", amount)
	t, err := f.terms()
	if err != nil {
		f.log.Error("claim callback lost", "err", err)
		return
	}
	g, err := f.global()
	if err != nil {
		f.log.Error("claim callback lost", "err", err)
		return
	}
	v, err := f.vaultOrNew(t, g, acc)
	if err != nil {
		f.log.Error("claim callback lost", "err", err)
		return
	}
	v.Recovered[i].Add(v.Recovered[i], amount)
	g.TotalHarvested[i].Sub(g.TotalHarvested[i], amount)
	if err := f.saveVault(acc, v); err != nil {
		f.log.Error("claim callback lost", "err", err)
		return
	}
	if err := f.saveGlobal(g); err != nil {
		f.log.Error("claim callback lost", "err", err)
	}
	metricOps().WithLabelValues("claim_recovered").Inc()
}

// onRefundDone recreates the vault when the storage deposit refund of a
// closed account bounces, keeping the deposit claimable.
func (f *Farm) onRefundDone(acc cheddar.Address, ok bool) {
	if ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.log.Warn("storage refund failed, reopening vault", "account", acc)
	t, err := f.terms()
	if err != nil {
		f.log.Error("close callback lost", "err", err)
		return
	}
	g, err := f.global()
	if err != nil {
		f.log.Error("close callback lost", "err", err)
		return
	}
	if _, err := f.vaultOrNew(t, g, acc); err != nil {
		f.log.Error("close callback lost", "err", err)
		return
	}
	if err := f.saveGlobal(g); err != nil {
		f.log.Error("close callback lost", "err", err)
	}
}

// vaultOrNew loads the account's vault, recreating an empty one when the
// account closed it since the operation started. A recreated vault bumps
// AccountsRegistered; the caller persists the global state.
func (f *Farm) vaultOrNew(t *Terms, g *globalState, acc cheddar.Address) (*Vault, error) {
	has, err := f.hasVault(acc)
	if err != nil {
		return nil, err
	}
	if has {
		return f.getVault(acc)
	}
	v := newVault(len(t.StakeTokens), len(t.FarmTokens), g.RewardAcc)
	if err := f.saveVault(acc, v); err != nil {
		return nil, err
	}
	g.AccountsRegistered++
	metricAccounts.Inc()
	return v, nil
}

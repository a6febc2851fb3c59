// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

func (f *Farm) assertOwner(t *Terms, caller cheddar.Address) error {
	if caller != t.Owner {
		return ErrNotOwner
	}
	return nil
}

// SetActive pauses or resumes the farm. A paused farm rejects staking,
// unstaking and claiming but keeps accruing nothing new to claim, since
// the accumulator only advances through those calls.
func (f *Farm) SetActive(caller cheddar.Address, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	if err := f.assertOwner(t, caller); err != nil {
		return err
	}
	g, err := f.global()
	if err != nil {
		return err
	}
	if g.Active == active {
		return nil
	}
	g.Active = active
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	f.log.Info("active flag changed", "active", active)
	metricOps().WithLabelValues("set_active").Inc()
	return nil
}

// SetStartEnd moves the farming window. Only allowed before the current
// window opened, and the new window must still lie in the future, so the
// deposited rewards keep covering the whole emission.
func (f *Farm) SetStartEnd(caller cheddar.Address, start, end uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	if err := f.assertOwner(t, caller); err != nil {
		return err
	}
	now := f.clock.Now()
	if now >= t.Start {
		return errors.New("farming already started")
	}
	if start <= now {
		return errors.New("new start must be in the future")
	}
	if end <= start {
		return errors.New("farming end must be after start")
	}
	oldRounds := RoundNumber(t.Start, t.End, t.End)
	newRounds := RoundNumber(start, end, end)
	if newRounds != oldRounds {
		return errors.Errorf("new window has %d rounds, deposits cover %d", newRounds, oldRounds)
	}
	t.Start = start
	t.End = end
	if err := f.saveTerms(t); err != nil {
		return err
	}
	f.log.Info("farming window moved", "start", start, "end", end)
	metricOps().WithLabelValues("set_start_end").Inc()
	return nil
}

// AdminWithdraw transfers tokens held by the farm back to the owner.
// Emission over zero-weight rounds is forfeited, so part of the reward
// deposits can end up owned by nobody; this is the rescue path for them
// once the farming window closed.
func (f *Farm) AdminWithdraw(caller, token cheddar.Address, amount *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	if err := f.assertOwner(t, caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("withdrawn amount must be positive")
	}
	f.ledger.Transfer(token, t.Owner, new(big.Int).Set(amount), "admin withdrawal", func(ok bool) {
		if !ok {
			f.log.Warn("admin withdrawal failed", "token", token, "amount", amount)
		}
	})
	f.log.Info("admin withdrawal", "token", token, "amount", amount)
	metricOps().WithLabelValues("admin_withdraw").Inc()
	return nil
}

// WithdrawFees transfers the collected unstake fees to the treasury.
// Failed transfers re-credit the collected counter.
func (f *Farm) WithdrawFees(caller cheddar.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, err := f.terms()
	if err != nil {
		return err
	}
	if err := f.assertOwner(t, caller); err != nil {
		return err
	}
	g, err := f.global()
	if err != nil {
		return err
	}
	if allZeros(g.FeeCollected) {
		return ErrNothingToClaim
	}
	fees := copyInts(g.FeeCollected)
	g.FeeCollected = zeros(len(t.StakeTokens))
	if err := f.saveGlobal(g); err != nil {
		return err
	}
	for i, fee := range fees {
		if fee.Sign() == 0 {
			continue
		}
		i, fee := i, fee
		f.ledger.Transfer(t.StakeTokens[i], t.Treasury, fee, "fee withdrawal", func(ok bool) {
			f.onFeeTransferDone(i, fee, ok)
		})
	}
	metricOps().WithLabelValues("withdraw_fees").Inc()
	return nil
}

func (f *Farm) onFeeTransferDone(i int, fee *big.Int, ok bool) {
	if ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.log.Warn("fee withdrawal failed, re-crediting", "amount", fee)
	g, err := f.global()
	if err != nil {
		f.log.Error("fee callback lost", "err", err)
		return
	}
	g.FeeCollected[i].Add(g.FeeCollected[i], fee)
	if err := f.saveGlobal(g); err != nil {
		f.log.Error("fee callback lost", "err", err)
	}
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the host ledger backing the farms: per token
// account balances, account registration, and vesting enforced transfers.
package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	log15 "github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/metrics"
	"github.com/alpha-fi/cheddar-farm/state"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

var (
	logger          = log15.New("pkg", "token")
	metricTransfers = metrics.Counter("token_transfers_count")
)

var (
	ErrNotRegistered       = errors.New("recipient not registered")
	ErrInsufficientBalance = errors.New("not enough balance")
)

// Clock is the ledger's time source, in unix seconds.
type Clock interface {
	Now() uint64
}

// balance is a big.Int storage record. A zero balance encodes empty and
// is removed from the store.
type balance struct {
	Amount *big.Int
}

func (b *balance) Encode() ([]byte, error) {
	if b.Amount.Sign() == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(b)
}

func (b *balance) Decode(data []byte) error {
	if len(data) == 0 {
		b.Amount = new(big.Int)
		return nil
	}
	return rlp.DecodeBytes(data, b)
}

var _ state.StructedStorage = (*balance)(nil)

func balanceKey(token, acc cheddar.Address) []byte {
	k := append([]byte("b"), token.Bytes()...)
	return append(k, acc.Bytes()...)
}

func registrationKey(acc cheddar.Address) []byte {
	return append([]byte("r"), acc.Bytes()...)
}

// Ledger tracks token balances of registered accounts. One token may be
// bound to a vesting ledger; outbound transfers of that token are refused
// while they would touch the still locked amount.
type Ledger struct {
	mu           sync.Mutex
	state        *state.State
	vesting      *vesting.Ledger
	vestingToken cheddar.Address
	clock        Clock
	log          log15.Logger
}

// NewLedger creates a ledger over the given state.
// vest may be nil when no token vests.
func NewLedger(st *state.State, vest *vesting.Ledger, vestingToken cheddar.Address, clock Clock) *Ledger {
	return &Ledger{
		state:        st,
		vesting:      vest,
		vestingToken: vestingToken,
		clock:        clock,
		log:          logger,
	}
}

// RegisterAccount opens the account. Registering twice is a no-op.
func (l *Ledger) RegisterAccount(acc cheddar.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.SetRaw(registrationKey(acc), []byte{1})
}

// IsRegistered reports whether the account was opened.
func (l *Ledger) IsRegistered(acc cheddar.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Has(registrationKey(acc))
}

// BalanceOf returns the account's balance of the given token.
func (l *Ledger) BalanceOf(token, acc cheddar.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOf(token, acc)
}

func (l *Ledger) balanceOf(token, acc cheddar.Address) (*big.Int, error) {
	var b balance
	if err := l.state.GetStructed(balanceKey(token, acc), &b); err != nil {
		return nil, err
	}
	return b.Amount, nil
}

func (l *Ledger) setBalance(token, acc cheddar.Address, amount *big.Int) error {
	return l.state.SetStructed(balanceKey(token, acc), &balance{Amount: amount})
}

// Mint credits freshly issued tokens to a registered account.
func (l *Ledger) Mint(token, acc cheddar.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	registered, err := l.isRegistered(acc)
	if err != nil {
		return err
	}
	if !registered {
		return errors.WithMessage(ErrNotRegistered, acc.String())
	}
	b, err := l.balanceOf(token, acc)
	if err != nil {
		return err
	}
	return l.setBalance(token, acc, b.Add(b, amount))
}

func (l *Ledger) isRegistered(acc cheddar.Address) (bool, error) {
	return l.state.Has(registrationKey(acc))
}

// Transfer moves tokens between registered accounts. Transfers of the
// vesting token out of an account must leave at least the still locked
// amount behind.
func (l *Ledger) Transfer(token, from, to cheddar.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(token, from, to, amount)
}

func (l *Ledger) transfer(token, from, to cheddar.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("transferred amount must be positive")
	}
	registered, err := l.isRegistered(to)
	if err != nil {
		return err
	}
	if !registered {
		return errors.WithMessage(ErrNotRegistered, to.String())
	}
	b, err := l.balanceOf(token, from)
	if err != nil {
		return err
	}
	if b.Cmp(amount) < 0 {
		return errors.WithMessagef(ErrInsufficientBalance, "balance %v", b)
	}
	left := new(big.Int).Sub(b, amount)
	if l.vesting != nil && token == l.vestingToken {
		if err := l.vesting.CheckTransfer(from, left, l.clock.Now()); err != nil {
			return err
		}
	}
	if err := l.setBalance(token, from, left); err != nil {
		return err
	}
	tb, err := l.balanceOf(token, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(token, to, tb.Add(tb, amount)); err != nil {
		return err
	}
	metricTransfers.Inc()
	return nil
}

// Account binds the ledger to a sending account, yielding the transfer
// interface the farms consume. The completion callback runs on its own
// goroutine, never inside the transfer call.
func (l *Ledger) Account(sender cheddar.Address) *Account {
	return &Account{ledger: l, sender: sender}
}

// Account is the ledger scoped to one sending account.
type Account struct {
	ledger *Ledger
	sender cheddar.Address
}

// Transfer moves tokens from the bound account to the recipient and
// reports the outcome through done.
func (a *Account) Transfer(token, recipient cheddar.Address, amount *big.Int, memo string, done func(ok bool)) {
	err := a.ledger.Transfer(token, a.sender, recipient, amount)
	if err != nil {
		a.ledger.log.Warn("transfer failed",
			"token", token, "from", a.sender, "to", recipient, "amount", amount, "memo", memo, "err", err)
	}
	go done(err == nil)
}

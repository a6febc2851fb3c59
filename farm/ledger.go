// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"time"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

// Clock is the farm's time source, in unix seconds.
type Clock interface {
	Now() uint64
}

type systemClock struct{}

func (systemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// SystemClock ticks with the wall clock.
var SystemClock Clock = systemClock{}

// TokenLedger moves tokens from the farm to external accounts.
// Transfers complete asynchronously; done must be invoked exactly once.
// The farm compensates failed transfers by re-crediting the account's vault.
type TokenLedger interface {
	Transfer(token, recipient cheddar.Address, amount *big.Int, memo string, done func(ok bool))
}

// Registry is the host ledger's account lifecycle gate.
type Registry interface {
	IsRegistered(acc cheddar.Address) (bool, error)
}

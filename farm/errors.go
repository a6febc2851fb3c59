// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import "github.com/pkg/errors"

// Validation failures abort the whole call with no state change.
var (
	ErrNotInitialized     = errors.New("farm not initialized")
	ErrAlreadyInitialized = errors.New("farm already initialized")
	ErrFarmInactive       = errors.New("farm not active")

	ErrNotRegistered     = errors.New("account not found, register the account")
	ErrAlreadyRegistered = errors.New("account already registered")
	ErrInsufficientStake = errors.New("not enough staked tokens")
	ErrMaxStakeExceeded  = errors.New("staked amount above the per token maximum")
	ErrNothingToClaim    = errors.New("nothing to claim")
	ErrTokenNotAccepted  = errors.New("token not accepted")
	ErrVaultNotEmpty     = errors.New("vault not empty, unstake and claim first")

	ErrBoostAlreadyDeposited = errors.New("boost token already deposited, only one is allowed")
	ErrNoBoostDeposited      = errors.New("no boost token deposited")

	ErrNotOwner            = errors.New("can only be called by the owner")
	ErrSetupFinalized      = errors.New("setup already finalized")
	ErrDepositDone         = errors.New("deposit already done for the given token")
	ErrUnexpectedDeposit   = errors.New("deposit differs from the expected amount")
	ErrInsufficientDeposit = errors.New("deposit is less than the storage cost")
)

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/cheddar"
)

var (
	termsKey  = []byte("terms")
	globalKey = []byte("global")
)

func vaultKey(acc cheddar.Address) []byte {
	return append([]byte("v"), acc.Bytes()...)
}

func (f *Farm) terms() (*Terms, error) {
	has, err := f.state.Has(termsKey)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNotInitialized
	}
	var t Terms
	if err := f.state.GetStructed(termsKey, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *Farm) saveTerms(t *Terms) error {
	return f.state.SetStructed(termsKey, t)
}

func (f *Farm) global() (*globalState, error) {
	var g globalState
	if err := f.state.GetStructed(globalKey, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (f *Farm) saveGlobal(g *globalState) error {
	return f.state.SetStructed(globalKey, g)
}

func (f *Farm) hasVault(acc cheddar.Address) (bool, error) {
	return f.state.Has(vaultKey(acc))
}

// getVault returns the registered vault of the account.
func (f *Farm) getVault(acc cheddar.Address) (*Vault, error) {
	has, err := f.hasVault(acc)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, errors.WithMessage(ErrNotRegistered, acc.String())
	}
	var v Vault
	if err := f.state.GetStructed(vaultKey(acc), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (f *Farm) saveVault(acc cheddar.Address, v *Vault) error {
	return f.state.SetStructed(vaultKey(acc), v)
}

func (f *Farm) deleteVault(acc cheddar.Address) error {
	return f.state.Delete(vaultKey(acc))
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/api/utils"
	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/token"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

type Accounts struct {
	ledger *token.Ledger
	vest   *vesting.Ledger
	clock  token.Clock
}

func New(ledger *token.Ledger, vest *vesting.Ledger, clock token.Clock) *Accounts {
	return &Accounts{ledger, vest, clock}
}

func parseAddress(req *http.Request, name string) (*cheddar.Address, error) {
	addr, err := cheddar.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	registered, err := a.ledger.IsRegistered(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"registered": registered})
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	tok, err := parseAddress(req, "token")
	if err != nil {
		return err
	}
	balance, err := a.ledger.BalanceOf(*tok, *addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"balance": balance.String()})
}

func (a *Accounts) handleGetLocked(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	locked, err := a.vest.LockedAmount(*addr, a.clock.Now())
	if err != nil {
		return err
	}
	rec, err := a.vest.Record(*addr)
	if err != nil {
		return err
	}
	resp := utils.M{"locked": locked.String()}
	if rec != nil {
		resp["vesting"] = utils.M{
			"amount": rec.Amount.String(),
			"cliff":  rec.Cliff,
			"end":    rec.End,
		}
	}
	return utils.WriteJSON(w, resp)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/balances/{token}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{address}/locked").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetLocked))
}

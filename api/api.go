// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api exposes the farm and ledger state over HTTP.
package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/alpha-fi/cheddar-farm/api/accounts"
	"github.com/alpha-fi/cheddar-farm/api/farms"
	"github.com/alpha-fi/cheddar-farm/farm"
	"github.com/alpha-fi/cheddar-farm/token"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

// New returns the api handler.
func New(farmSet map[string]*farm.Farm, ledger *token.Ledger, vest *vesting.Ledger, clock token.Clock, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	farms.New(farmSet).Mount(router, "/farms")
	accounts.New(ledger, vest, clock).Mount(router, "/accounts")

	return handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(router)
}

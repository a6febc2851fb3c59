// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/api/utils"
	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/farm"
)

type Farms struct {
	farms map[string]*farm.Farm
}

func New(farms map[string]*farm.Farm) *Farms {
	return &Farms{farms}
}

func (f *Farms) farm(req *http.Request) (*farm.Farm, error) {
	name := mux.Vars(req)["name"]
	fm, ok := f.farms[name]
	if !ok {
		return nil, utils.NotFound(errors.Errorf("no farm named %q", name))
	}
	return fm, nil
}

func (f *Farms) handleList(w http.ResponseWriter, _ *http.Request) error {
	names := make([]string, 0, len(f.farms))
	for name := range f.farms {
		names = append(names, name)
	}
	sort.Strings(names)
	return utils.WriteJSON(w, names)
}

func (f *Farms) handleGetFarm(w http.ResponseWriter, req *http.Request) error {
	fm, err := f.farm(req)
	if err != nil {
		return err
	}
	ov, err := fm.Overview()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertOverview(ov))
}

func (f *Farms) handleGetStatus(w http.ResponseWriter, req *http.Request) error {
	fm, err := f.farm(req)
	if err != nil {
		return err
	}
	addr, err := cheddar.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	st, err := fm.Status(*addr)
	if err != nil {
		if errors.Is(err, farm.ErrNotRegistered) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertStatus(st))
}

func (f *Farms) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(f.handleList))
	sub.Path("/{name}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarm))
	sub.Path("/{name}/accounts/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(f.handleGetStatus))
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/farm"
	"github.com/alpha-fi/cheddar-farm/kv"
	"github.com/alpha-fi/cheddar-farm/state"
	"github.com/alpha-fi/cheddar-farm/token"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

type testClock struct {
	now uint64
}

func (c *testClock) Now() uint64 { return c.now }

var (
	owner      = cheddar.BytesToAddress([]byte("owner"))
	stakeToken = cheddar.BytesToAddress([]byte("stake-token"))
	farmToken  = cheddar.BytesToAddress([]byte("farm-token"))
	alice      = cheddar.BytesToAddress([]byte("alice"))
)

func newTestServer(t *testing.T) (*httptest.Server, *testClock) {
	clock := &testClock{now: 900}

	store := kv.NewMem()
	ledgerState := state.New(kv.Bucket("l").NewStore(store))
	vest := vesting.NewLedger(ledgerState)
	ledger := token.NewLedger(ledgerState, vest, stakeToken, clock)

	farmAddr := cheddar.BytesToAddress([]byte("farm"))
	f := farm.New(farmAddr, state.New(kv.Bucket("f").NewStore(store)), ledger.Account(farmAddr), ledger, clock)

	e24 := func(n int64) *big.Int { return new(big.Int).Mul(big.NewInt(n), cheddar.E24) }
	require.NoError(t, f.Init(&farm.Terms{
		Owner:          owner,
		Treasury:       owner,
		StakeTokens:    []cheddar.Address{stakeToken},
		StakeRates:     []*big.Int{new(big.Int).Set(cheddar.E24)},
		FarmTokens:     []cheddar.Address{farmToken},
		FarmTokenRates: []*big.Int{new(big.Int).Set(cheddar.E24)},
		Emission:       e24(100),
		Start:          1000,
		End:            1600,
	}))
	require.NoError(t, f.SetupDeposit(farmToken, e24(1000)))
	require.NoError(t, f.FinalizeSetup())

	require.NoError(t, ledger.RegisterAccount(farmAddr))
	require.NoError(t, ledger.RegisterAccount(alice))
	require.NoError(t, ledger.Mint(stakeToken, alice, e24(10)))
	require.NoError(t, f.Register(alice, cheddar.StorageCost))
	require.NoError(t, ledger.Transfer(stakeToken, alice, farmAddr, e24(4)))
	_, err := f.Stake(alice, stakeToken, e24(4))
	require.NoError(t, err)

	rec, err := vesting.NewRecord(e24(2), 2000, 3000)
	require.NoError(t, err)
	require.NoError(t, vest.Set(alice, rec))

	srv := httptest.NewServer(New(map[string]*farm.Farm{"cheddar": f}, ledger, vest, clock, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, clock
}

func httpGet(t *testing.T, url string) (int, []byte) {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestListFarms(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := httpGet(t, srv.URL+"/farms")
	assert.Equal(t, http.StatusOK, status)
	var names []string
	require.NoError(t, json.Unmarshal(body, &names))
	assert.Equal(t, []string{"cheddar"}, names)
}

func TestGetFarm(t *testing.T) {
	srv, clock := newTestServer(t)
	clock.now = 1120 // round 2

	status, body := httpGet(t, srv.URL+"/farms/cheddar")
	assert.Equal(t, http.StatusOK, status)
	var ov map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &ov))
	assert.Equal(t, true, ov["setupFinalized"])
	assert.Equal(t, float64(2), ov["currentRound"])
	assert.Equal(t, float64(1), ov["accountsRegistered"])

	status, _ = httpGet(t, srv.URL+"/farms/gouda")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetFarmAccount(t *testing.T) {
	srv, clock := newTestServer(t)
	clock.now = 1600 // past the end, all 10 rounds settled

	status, body := httpGet(t, srv.URL+"/farms/cheddar/accounts/"+alice.String())
	assert.Equal(t, http.StatusOK, status)
	var st map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &st))
	farmed := st["farmed"].([]interface{})
	assert.Equal(t, new(big.Int).Mul(big.NewInt(1000), cheddar.E24).String(), farmed[0])

	status, _ = httpGet(t, srv.URL+"/farms/cheddar/accounts/not-an-address")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = httpGet(t, srv.URL+"/farms/cheddar/accounts/"+owner.String())
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetAccount(t *testing.T) {
	srv, clock := newTestServer(t)

	status, body := httpGet(t, srv.URL+"/accounts/"+alice.String())
	assert.Equal(t, http.StatusOK, status)
	var acc map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, true, acc["registered"])

	// 10 minted, 4 staked away
	status, body = httpGet(t, srv.URL+"/accounts/"+alice.String()+"/balances/"+stakeToken.String())
	assert.Equal(t, http.StatusOK, status)
	var bal map[string]string
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.Equal(t, new(big.Int).Mul(big.NewInt(6), cheddar.E24).String(), bal["balance"])

	// vesting still fully locked before the cliff
	clock.now = 1500
	status, body = httpGet(t, srv.URL+"/accounts/"+alice.String()+"/locked")
	assert.Equal(t, http.StatusOK, status)
	var locked map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &locked))
	assert.Equal(t, new(big.Int).Mul(big.NewInt(2), cheddar.E24).String(), locked["locked"])
}

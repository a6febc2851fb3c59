// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"

	"github.com/alpha-fi/cheddar-farm/kv"
)

type counter struct {
	Value *big.Int
}

func (c *counter) Encode() ([]byte, error) {
	if c.Value.Sign() == 0 {
		return nil, nil
	}
	return rlp.EncodeToBytes(c)
}

func (c *counter) Decode(data []byte) error {
	if len(data) == 0 {
		*c = counter{new(big.Int)}
		return nil
	}
	return rlp.DecodeBytes(data, c)
}

func TestStructedStorage(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()
	st := New(db)

	key := []byte("c")

	var c counter
	assert.NoError(t, st.GetStructed(key, &c))
	assert.Equal(t, 0, c.Value.Sign())

	c.Value = big.NewInt(42)
	assert.NoError(t, st.SetStructed(key, &c))

	var got counter
	assert.NoError(t, st.GetStructed(key, &got))
	assert.Equal(t, big.NewInt(42), got.Value)

	has, err := st.Has(key)
	assert.NoError(t, err)
	assert.True(t, has)

	// default value records are removed
	got.Value = new(big.Int)
	assert.NoError(t, st.SetStructed(key, &got))
	has, err = st.Has(key)
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestDelete(t *testing.T) {
	db := kv.NewMem()
	defer db.Close()
	st := New(db)

	c := counter{big.NewInt(7)}
	assert.NoError(t, st.SetStructed([]byte("c"), &c))
	assert.NoError(t, st.Delete([]byte("c")))

	var got counter
	assert.NoError(t, st.GetStructed([]byte("c"), &got))
	assert.Equal(t, 0, got.Value.Sign())
}

// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cheddar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte("farm"))
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	parsed, err := ParseAddress(addr.String())
	assert.NoError(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0xzz")
	assert.Error(t, err)
	_, err = ParseAddress("abc")
	assert.Error(t, err)
}

func TestAddressText(t *testing.T) {
	addr := BytesToAddress([]byte("treasury"))
	text, err := addr.MarshalText()
	assert.NoError(t, err)

	var got Address
	assert.NoError(t, got.UnmarshalText(text))
	assert.Equal(t, addr, got)
}

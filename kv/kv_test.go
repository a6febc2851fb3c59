// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemStore(t *testing.T) {
	db := NewMem()
	defer db.Close()

	_, err := db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	assert.NoError(t, db.Put([]byte("k"), []byte("v")))
	val, err := db.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	has, err := db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	assert.NoError(t, err)
	assert.False(t, has)
}

func TestBucket(t *testing.T) {
	db := NewMem()
	defer db.Close()

	b1 := Bucket("b1/").NewStore(db)
	b2 := Bucket("b2/").NewStore(db)

	assert.NoError(t, b1.Put([]byte("k"), []byte("v1")))
	assert.NoError(t, b2.Put([]byte("k"), []byte("v2")))

	val, err := b1.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	val, err = db.Get([]byte("b2/k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), val)

	assert.NoError(t, b1.Delete([]byte("k")))
	has, err := b2.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)
}

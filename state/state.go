// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides structured storage for ledger records on top of a
// kv store. Records implement their own codec (normally RLP); raw encoded
// values are cached so repeated reads of hot records skip the store.
package state

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/alpha-fi/cheddar-farm/kv"
)

const cachedRecords = 1024

// StructedStorage is implemented by storage record types.
// Encode returning empty bytes means the record holds its default value
// and is removed from the store; Decode of empty bytes must reset the
// record to its default value.
type StructedStorage interface {
	Encode() ([]byte, error)
	Decode([]byte) error
}

// State reads and writes structured records of a single ledger instance.
type State struct {
	store kv.GetPutter
	cache *lru.Cache
}

// New creates a state over the given store.
func New(store kv.GetPutter) *State {
	cache, _ := lru.New(cachedRecords)
	return &State{store: store, cache: cache}
}

// GetStructed loads the record at key into val.
// A missing key decodes the default value.
func (s *State) GetStructed(key []byte, val StructedStorage) error {
	raw, err := s.rawGet(key)
	if err != nil {
		return err
	}
	if err := val.Decode(raw); err != nil {
		return errors.Wrap(err, "decode storage record")
	}
	return nil
}

// SetStructed stores val at key. Records encoding to empty bytes are deleted.
func (s *State) SetStructed(key []byte, val StructedStorage) error {
	data, err := val.Encode()
	if err != nil {
		return errors.Wrap(err, "encode storage record")
	}
	if len(data) == 0 {
		return s.Delete(key)
	}
	if err := s.store.Put(key, data); err != nil {
		return errors.Wrap(err, "put storage record")
	}
	s.cache.Add(string(key), data)
	return nil
}

// SetRaw stores raw bytes at key, bypassing the record codec.
// Empty data deletes the record.
func (s *State) SetRaw(key, data []byte) error {
	if len(data) == 0 {
		return s.Delete(key)
	}
	if err := s.store.Put(key, data); err != nil {
		return errors.Wrap(err, "put storage record")
	}
	s.cache.Add(string(key), data)
	return nil
}

// Has tells whether a record exists at key.
func (s *State) Has(key []byte) (bool, error) {
	if _, ok := s.cache.Get(string(key)); ok {
		return true, nil
	}
	return s.store.Has(key)
}

// Delete removes the record at key.
func (s *State) Delete(key []byte) error {
	s.cache.Remove(string(key))
	if err := s.store.Delete(key); err != nil {
		return errors.Wrap(err, "delete storage record")
	}
	return nil
}

func (s *State) rawGet(key []byte) ([]byte, error) {
	if cached, ok := s.cache.Get(string(key)); ok {
		return cached.([]byte), nil
	}
	raw, err := s.store.Get(key)
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get storage record")
	}
	s.cache.Add(string(key), raw)
	return raw, nil
}
